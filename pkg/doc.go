// Package pkg provides the core libraries for impactriver contribution charts.
//
// # Overview
//
// impactriver turns a repository's git history into a contribution river:
// one flowing band per author across time buckets, its thickness tracking the
// lines that author changed in each bucket. Hovering an author raises their
// band and reveals its per-bucket sizes. The pkg directory is organized into:
//
//  1. [ingest] - Git history parsing and bucketing
//  2. [dataset] - The aggregated chart input, its validation and file formats
//  3. [render/river] - Layout, curves, labels, colors and selection
//  4. [pipeline] - Orchestration (ingest → build → render) with caching
//  5. [server] - The HTTP viewer with live selection sessions
//
// # Architecture
//
// The typical data flow:
//
//	git log --numstat
//	         ↓
//	    [ingest] package (parse, alias, bucket)
//	         ↓
//	    [dataset] package (validated authors + buckets)
//	         ↓
//	    [render/river] package (bands, labels, draw order)
//	         ↓
//	    SVG/JSON/PNG/PDF output or a live [server] session
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/impactriver/pkg/dataset"
//	    "github.com/matzehuels/impactriver/pkg/render/river"
//	    "github.com/matzehuels/impactriver/pkg/render/river/sink"
//	)
//
//	ds, _ := dataset.Import("history.json")
//	chart, _ := river.Build(ds, river.Options{})
//	session := river.NewSession(chart)
//	directives, _ := session.Select(ds.Authors[0].ID)
//	svg := sink.RenderSVG(session)
//
// # Supporting Packages
//
// [cache] - File, Redis and no-op caches with content-addressed keys for
// ingested datasets and rendered artifacts.
//
// [observability] - Hook interfaces for pipeline, cache, session and HTTP
// events, with a Prometheus implementation in observability/prom.
//
// [errors] - Coded errors shared by every package (INVALID_INPUT,
// INVALID_FORMAT, SESSION_NOT_FOUND and friends).
//
// [buildinfo] - Version information injected at build time.
//
// # Testing
//
//	go test ./pkg/...                       # All tests
//	go test ./pkg/render/river/...          # Chart construction only
//
// [ingest]: https://pkg.go.dev/github.com/matzehuels/impactriver/pkg/ingest
// [dataset]: https://pkg.go.dev/github.com/matzehuels/impactriver/pkg/dataset
// [render/river]: https://pkg.go.dev/github.com/matzehuels/impactriver/pkg/render/river
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/impactriver/pkg/pipeline
// [server]: https://pkg.go.dev/github.com/matzehuels/impactriver/pkg/server
// [cache]: https://pkg.go.dev/github.com/matzehuels/impactriver/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/impactriver/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/impactriver/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/impactriver/pkg/buildinfo
package pkg
