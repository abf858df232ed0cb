// Package diskcache persists the last fetched subscriber collection so the
// list can render immediately on the next start while a fresh fetch runs.
package diskcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/peterbourgon/diskv/v3"

	"github.com/five82/subdeck/internal/subscriber"
)

const (
	keyPrefix    = "subscriber"
	cacheSizeMax = 1024 * 1024 // 1MB
)

// Cache stores one JSON document per subscriber under BasePath/subscriber/.
type Cache struct {
	d        *diskv.Diskv
	basePath string
}

// Open returns a cache rooted at dir. The directory is created lazily on
// first write.
func Open(dir string) (*Cache, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, fmt.Errorf("cache dir is empty")
	}
	return &Cache{
		d: diskv.New(diskv.Options{
			BasePath:          dir,
			AdvancedTransform: keyToPathTransform,
			InverseTransform:  pathToKeyTransform,
			CacheSizeMax:      cacheSizeMax,
		}),
		basePath: dir,
	}, nil
}

// Path returns the cache root.
func (c *Cache) Path() string {
	return c.basePath
}

// Load returns every cached subscriber ordered by IMSI. Unreadable entries are
// skipped and reported in the joined error alongside the usable records.
func (c *Cache) Load(ctx context.Context) ([]subscriber.Subscriber, error) {
	if _, err := os.Stat(c.basePath); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}

	var out []subscriber.Subscriber
	var errs []error
	for key := range c.d.Keys(ctx.Done()) {
		raw, err := c.d.Read(key)
		if err != nil {
			errs = append(errs, fmt.Errorf("read %s: %w", key, err))
			continue
		}
		var sub subscriber.Subscriber
		if err := json.Unmarshal(raw, &sub); err != nil {
			errs = append(errs, fmt.Errorf("decode %s: %w", key, err))
			continue
		}
		if strings.TrimSpace(sub.IMSI) == "" {
			continue
		}
		out = append(out, sub)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IMSI < out[j].IMSI })
	return out, errors.Join(errs...)
}

// Replace makes the cache hold exactly subs.
func (c *Cache) Replace(ctx context.Context, subs []subscriber.Subscriber) error {
	keep := make(map[string]struct{}, len(subs))
	for _, sub := range subs {
		if strings.TrimSpace(sub.IMSI) == "" {
			continue
		}
		raw, err := json.Marshal(sub)
		if err != nil {
			return fmt.Errorf("encode %s: %w", sub.IMSI, err)
		}
		key := toKey(sub.IMSI)
		if err := c.d.Write(key, raw); err != nil {
			return fmt.Errorf("write %s: %w", key, err)
		}
		keep[key] = struct{}{}
	}

	var stale []string
	for key := range c.d.Keys(ctx.Done()) {
		if _, ok := keep[key]; !ok {
			stale = append(stale, key)
		}
	}
	for _, key := range stale {
		if err := c.d.Erase(key); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("erase %s: %w", key, err)
		}
	}
	return nil
}

// Delete drops a single subscriber. Missing entries are not an error.
func (c *Cache) Delete(imsi string) error {
	err := c.d.Erase(toKey(imsi))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("erase %s: %w", imsi, err)
	}
	return nil
}

func toKey(imsi string) string {
	return keyPrefix + "-" + strings.TrimSpace(imsi)
}

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) < 2 {
		return &diskv.PathKey{Path: []string{keyPrefix}, FileName: s}
	}
	return &diskv.PathKey{
		Path:     []string{parts[0]},
		FileName: parts[1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return fmt.Sprintf("%s-%s", strings.Join(pathKey.Path, "-"), pathKey.FileName)
}
