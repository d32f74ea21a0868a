// Package models defines domain entities and persistence interfaces for the simplescore catalog.
//
// The package contains two categories of types:
//
// 1. Metadata records: plain structs with an explicit, hand-declared field list
//   - [SongMetadata] : the exact (title, artist) pair identifying a song
//   - [ChartMetadata] : charter and difficulty read from a chart file header
//   - [ScoreFields] / [ScoreSubmission] : client supplied values of a play
//
// 2. Persistent Entities: database-backed models
//   - [Song] : a song, alive only while one of its charts exists
//   - [Chart] : a chart file, identified by the SHA3-512 fingerprint of its bytes
//   - [Player] : the identity of a token subject submitting scores
//   - [Score] : a play attached to a registered chart
//   - [PartialScore] : a play submitted for a fingerprint no chart has yet
//
// All persistent entities implement the Model interface providing IDs, creation timestamps and validation.
// Validation failures are [shared.FieldError] values wrapping [shared.ErrValidation].
// The Repository[T] interface defines standard data access operations.
package models
