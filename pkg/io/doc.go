// Package io reads and writes netlist designs.
//
// # Record Files
//
// A design is stored as up to four text files sharing a stem:
//
//	<name>.nodes     one node record per line
//	<name>.edges     one edge record per line
//	<name>.optimals  optional, one "id,name,euclidean_distance,hpwl" per line
//	<name>.board     optional, four "key,value" bound lines
//
// Readers skip blank lines and report the 1-based line number of the first
// malformed record. Writers always emit long records with eight decimal
// places, the precision the downstream tools expect.
//
// Use [LoadGraph] to assemble a [netlist.Graph] from a [Paths] set, and
// [SaveGraph] to write one back:
//
//	g, b, err := io.LoadGraph(io.PathsFor("designs", "amp"), netlist.Long)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # JSON Snapshots
//
// [WriteJSON] and [ReadJSON] serialize the whole working state of a graph,
// placement flags and optimals included, as one JSON document:
//
//	{
//	  "name": "amp",
//	  "version": "0.1.16",
//	  "nodes": [{"id": 0, "name": "U1", "size": [4, 2], ...}],
//	  "edges": [{"a": {"id": 0, "pad_id": 1, ...}, "b": {...}, "net_id": 3, ...}]
//	}
//
// Snapshots are what the HTTP API accepts for new sessions and what the
// CLI writes with "export --format json".
//
// # Concurrency
//
// All functions are safe to call concurrently as long as no other
// goroutine mutates the graph being written.
package io
