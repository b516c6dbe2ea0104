// Package devtools serves a small inspector for a running app.
//
// The inspector streams every recorded host operation to WebSocket
// clients, serves a snapshot of the mounted tree and exposes the
// Prometheus metrics of the runtime.
//
// Routes:
//
//	GET /             inspector page
//	GET /ws           live op stream (JSON messages)
//	GET /api/tree     current tree as HTML inside JSON
//	GET /api/ops      recent ops
//	GET /api/clients  connected inspector count
//	GET /metrics      Prometheus exposition
//
// Wire it to a host.Recorder through Sink:
//
//	srv := devtools.NewServer(devtools.WithSnapshot(snap))
//	rec := host.NewRecorder(mem, host.WithSink(srv.Sink()))
package devtools
