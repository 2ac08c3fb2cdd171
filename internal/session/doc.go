// Package session keeps server-side key/value sessions addressed by an id
// cookie. Manager loads the session for each request and saves it when a
// handler changed it; Store implementations live in the memory, redis and
// sqlite subpackages.
package session
