// Package services contains the Spotify Web API client.
//
// [SpotifyService] plays two roles:
//
//   - It implements [auth.Provider]: building authorization URLs, exchanging
//     authorization codes, refreshing credentials, and resolving the stable
//     user identifier behind an access token. OAuth mechanics are delegated
//     to [golang.org/x/oauth2].
//
//   - It exposes the downstream product surface (profile, track search,
//     playlist creation, adding tracks). Every call takes the caller's
//     bearer token explicitly; the client holds no per-user token state, so
//     one instance serves all connected users concurrently.
//
// Responses are decoded into the Spotify* types mirroring
// https://developer.spotify.com/documentation/web-api/reference/
package services
