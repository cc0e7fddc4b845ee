package session

import "bytes"

// Key layout:
//
//	sess:{id}:meta    → msgpack Session
//	sess:{id}:tr      → msgpack []transcript.Segment
//	sess:{id}:roster  → msgpack map[label]identityRec
//	sess:{id}:tale    → msgpack Tale
//
// Session IDs are UUIDs and never contain ':', so the layout is
// unambiguous.
const keyPrefix = "sess:"

var metaSuffix = []byte(":meta")

func key(id, kind string) []byte {
	return []byte(keyPrefix + id + ":" + kind)
}

func metaKey(id string) []byte       { return key(id, "meta") }
func transcriptKey(id string) []byte { return key(id, "tr") }
func rosterKey(id string) []byte     { return key(id, "roster") }
func taleKey(id string) []byte       { return key(id, "tale") }

func isMetaKey(k []byte) bool {
	return bytes.HasSuffix(k, metaSuffix)
}

// sessionKeys lists every key a session may own, for deletion.
func sessionKeys(id string) [][]byte {
	return [][]byte{metaKey(id), transcriptKey(id), rosterKey(id), taleKey(id)}
}
