// Package render turns DOT source into image files.
//
// # Renderers
//
// Two [Renderer] backends are provided:
//
//   - [Graphviz] renders in-process through github.com/goccy/go-graphviz
//     (Graphviz compiled to WebAssembly). No system install is required.
//   - [Exec] runs the system "dot" binary. Use it when nodes carry icon
//     images, which the in-process build cannot load from disk.
//
// Both accept a layout engine (dot, neato, fdp, circo, twopi) and the output
// formats listed in [Formats].
//
// # Caching
//
// [Cached] wraps any renderer with a [cache.Cache] keyed by the source,
// engine and format, so re-rendering an unchanged diagram is free:
//
//	r := render.Cached(render.Graphviz{}, fileCache, cache.DefaultTTL)
//	png, err := r.Render(ctx, src, render.FormatPNG)
//
// [cache.Cache]: github.com/matzehuels/architectures/pkg/cache.Cache
package render
