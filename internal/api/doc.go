// Package api provides an HTTP client for the subscriber database API.
//
// # Overview
//
// The backend exposes subscriber documents as a REST collection keyed by
// IMSI. This package handles HTTP communication and JSON serialization, and
// turns error responses into typed errors the crud adapter can inspect.
//
// # Client Usage
//
//	client, err := api.NewClient("127.0.0.1:3000", token)
//	if err != nil {
//		return fmt.Errorf("init api client: %w", err)
//	}
//
//	subs, err := client.ListSubscribers(ctx)
//	if err != nil {
//		log.Error().Err(err).Msg("list failed")
//	}
//
// # API Endpoints
//
//   - GET    /api/db/Subscriber         list every subscriber
//   - GET    /api/db/Subscriber/{imsi}  fetch one subscriber
//   - POST   /api/db/Subscriber         create a subscriber
//   - PUT    /api/db/Subscriber/{imsi}  replace a subscriber
//   - DELETE /api/db/Subscriber/{imsi}  delete a subscriber
//
// # Request Handling
//
// All requests:
//   - Use context for cancellation and timeout control
//   - Set Accept: application/json, and Content-Type when a body is sent
//   - Include User-Agent: subdeck/0.1
//   - Include Authorization: Bearer <token> when a token is configured
//   - Have a 5-second timeout
//
// # Error Handling
//
//   - Client initialization errors: invalid api_bind
//   - Validation errors: ErrMissingIMSI, returned before any request
//   - Network errors: wrapped as "execute request: ..."
//   - HTTP errors: *APIError carrying the status code plus the name and
//     message from the backend's JSON error body, when present
//   - Decode errors: wrapped as "decode response: ..."
//
// Callers use errors.As to recover an *APIError.
package api
