// Package auth implements the OAuth authorization and per-user credential
// lifecycle for the simrai web service.
//
// # Components
//
// [StateStore] issues single-use anti-CSRF state tokens for the
// authorization-code flow. Validation atomically consumes the token, so a
// replayed callback can never pass the guard twice. A background sweep purges
// expired tokens; expiry is enforced on validation independently of the sweep.
//
// [TokenStore] persists access/refresh credentials with one isolated
// partition per Spotify user. The file-backed implementation writes each
// partition with a temp-file-then-rename swap and serializes operations on a
// partition behind its own mutex, so a refresh never interleaves with a
// concurrent read and two users never contend on each other's partitions.
//
// [SessionRegistry] maps opaque session identifiers (carried in an HTTP-only
// cookie) to user identities. The browser only ever holds the session
// identifier; credential material stays server side.
//
// [Coordinator] orchestrates the flow: BeginLogin issues a state token and
// builds the provider authorization URL; HandleCallback validates state,
// exchanges the code, resolves the provider user ID, persists credentials,
// and creates a session. Any failing step aborts the whole callback.
//
// [Refresher] wraps token reads with refresh-before-use. Refreshes for one
// user are collapsed into a single provider call via the token store's
// per-partition serialization.
//
// All components are plain constructed values with injected dependencies;
// tests instantiate isolated instances per case.
package auth
