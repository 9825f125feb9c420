// Package services talks to the Spotify Web API and composes the calls that turn three
// artist names into a list of recommended tracks.
//
// # Token Provider
//
// [TokenProvider] obtains a bearer credential. [ClientCredentialsProvider] performs the
// OAuth2 client credentials grant with [clientcredentials.Config] on every call; tokens
// are never cached or reused between calls.
//
// # Catalog
//
// [Catalog] wraps the search and recommendations endpoints. [SpotifyCatalog] attaches the
// bearer token to each request. An empty match or track list is returned as an empty
// slice, never as an error, so callers can tell "nothing found" apart from a failed call.
//
// # Recommender
//
// [Recommender] drives the pipeline for one request:
//
//	Validating → FetchingToken → ResolvingArtist(1|2|3) → FetchingRecommendations
//
// Each stage either produces its value or a [*StageError] tagged with the stage (and the
// artist position for searches). The first failure ends the run.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrMissingArgument] : an artist name is missing
//   - [shared.ErrAuthFailed] : the token exchange failed
//   - [shared.ErrAPIRequest] : a catalog call failed (transport, status, decoding)
//   - [shared.ErrTimeout] : an upstream call exceeded its deadline
//   - [shared.ErrArtistNotFound] : a search returned zero matches ([*ArtistNotFoundError])
//   - [shared.ErrNoRecommendations] : the recommendations call returned zero tracks
package services
