// Package meme contains the asset pipeline behind the HTTP handlers: the
// directory index enumerating eligible files, the uniform random selector,
// and the service that answers requests from the in-memory cache, falling
// back to disk on a miss. The index is rebuilt when the memes directory
// changes; everything else is stateless apart from the shared cache and the
// request statistics.
package meme
