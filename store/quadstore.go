package store

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/mirella-sparql/mirella/rdf"
)

// quadIndex names a key ordering over (subject, predicate, object,
// graph), generalizing the teacher's EAVT/AEVT/AVET/VAET/TAEV scheme
// (datalog/storage/store.go IndexType) from entity-attribute-value-tx
// to subject-predicate-object-graph. Four orderings cover every
// pattern shape with at least one ground leading slot; the all-variable
// pattern falls back to a full SPOG scan.
type quadIndex byte

const (
	indexSPOG quadIndex = iota
	indexPOSG
	indexOSPG
	indexGSPO
)

var allQuadIndexes = []quadIndex{indexSPOG, indexPOSG, indexOSPG, indexGSPO}

// QuadStore is a badger/v4-backed persistent Dataset, generalizing the
// teacher's BadgerStore (datalog/storage/badger_store.go) from a
// Datom(E,A,V,Tx) record to an rdf.Quad record, and from five EAV-style
// index orderings to four SPOG-style ones.
type QuadStore struct {
	db *badger.DB
}

// OpenQuadStore opens (creating if absent) a badger database at path as
// a persistent quad store. Mirrors NewBadgerStore's option tuning for a
// read-heavy workload.
func OpenQuadStore(path string) (*QuadStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	opts.MemTableSize = 128 << 20
	opts.BlockCacheSize = 256 << 20
	opts.IndexCacheSize = 100 << 20
	opts.DetectConflicts = false

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("store: failed to open badger: %w", err)
	}
	return &QuadStore{db: db}, nil
}

func (s *QuadStore) Close() error { return s.db.Close() }

// Insert writes a batch of quads to every index ordering, in one
// transaction, mirroring BadgerStore.assertDatom's per-index fan-out.
func (s *QuadStore) Insert(quads []rdf.Quad) error {
	return s.db.Update(func(txn *badger.Txn) error {
		for _, q := range quads {
			value, err := encodeQuad(q)
			if err != nil {
				return fmt.Errorf("store: encode quad: %w", err)
			}
			for _, idx := range allQuadIndexes {
				key := encodeKey(idx, q)
				if err := txn.Set(key, value); err != nil {
					return fmt.Errorf("store: write %v index: %w", idx, err)
				}
			}
		}
		return nil
	})
}

// Match selects an index with chooseIndex, prefix-scans it, and filters remaining
// candidates with Pattern.Matches — the same two-phase "index select,
// then filter" shape as the teacher's pattern-to-relation pipeline
// (datalog/annotations PatternIndexSelection / PatternStorageScan /
// PatternFiltering event names document these same three phases).
func (s *QuadStore) Match(ctx context.Context, pattern Pattern) (QuadIterator, error) {
	idx, prefix := chooseIndex(pattern)

	var out []rdf.Quad
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		fullPrefix := append([]byte{byte(idx)}, prefix...)
		for it.Seek(fullPrefix); it.ValidForPrefix(fullPrefix); it.Next() {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			item := it.Item()
			err := item.Value(func(val []byte) error {
				q, decodeErr := decodeQuad(val)
				if decodeErr != nil {
					return decodeErr
				}
				if pattern.Matches(q) {
					out = append(out, q)
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return newSliceIterator(out), nil
}

// chooseIndex picks the index ordering led by the first ground slot in
// subject, predicate, object, graph priority order (not necessarily the
// ordering with the longest ground prefix), and returns the encoded
// prefix bytes for whichever leading slots are ground under it.
func chooseIndex(p Pattern) (quadIndex, []byte) {
	switch {
	case !p.Subject.IsVariable() && !p.Subject.IsUnbound():
		return indexSPOG, encodePrefix(p.Subject, p.Predicate, p.Object)
	case !p.Predicate.IsVariable() && !p.Predicate.IsUnbound():
		return indexPOSG, encodePrefix(p.Predicate, p.Object, rdf.Unbound)
	case !p.Object.IsVariable() && !p.Object.IsUnbound():
		return indexOSPG, encodePrefix(p.Object, rdf.Unbound, rdf.Unbound)
	case !p.Context.IsUnbound() && !p.Context.IsVariable():
		return indexGSPO, encodePrefix(p.Context, rdf.Unbound, rdf.Unbound)
	default:
		return indexSPOG, nil
	}
}

// encodePrefix encodes leading ground terms only, stopping at the first
// variable/unbound slot so the prefix remains a valid scan bound.
func encodePrefix(terms ...rdf.Term) []byte {
	var buf bytes.Buffer
	for _, t := range terms {
		if t.IsVariable() || t.IsUnbound() {
			break
		}
		buf.WriteString(t.String())
		buf.WriteByte(0)
	}
	return buf.Bytes()
}

func encodeKey(idx quadIndex, q rdf.Quad) []byte {
	var order []rdf.Term
	switch idx {
	case indexSPOG:
		order = []rdf.Term{q.Subject, q.Predicate, q.Object, q.Graph}
	case indexPOSG:
		order = []rdf.Term{q.Predicate, q.Object, q.Subject, q.Graph}
	case indexOSPG:
		order = []rdf.Term{q.Object, q.Subject, q.Predicate, q.Graph}
	case indexGSPO:
		order = []rdf.Term{q.Graph, q.Subject, q.Predicate, q.Object}
	}
	var buf bytes.Buffer
	buf.WriteByte(byte(idx))
	for _, t := range order {
		buf.WriteString(t.String())
		buf.WriteByte(0)
	}
	return buf.Bytes()
}

// encodedQuad is the gob-serializable projection of rdf.Quad stored as
// each index entry's value (every index stores the full quad so no
// secondary lookup is needed once a key is found — the same "self
// contained index entries" approach as ToStorageDatom/StorageDatomFromBytes).
type encodedQuad struct {
	SKind, PKind, OKind, GKind int
	SVal, PVal, OVal, GVal    string
	SExtra, OExtra, GExtra    string // lang or datatype, kind-dependent
}

func encodeQuad(q rdf.Quad) ([]byte, error) {
	enc := encodedQuad{
		SKind: int(q.Subject.Kind()), SVal: q.Subject.Lexical(),
		PKind: int(q.Predicate.Kind()), PVal: q.Predicate.Lexical(),
		OKind: int(q.Object.Kind()), OVal: q.Object.Lexical(),
		GKind: int(q.Graph.Kind()), GVal: q.Graph.Lexical(),
		SExtra: extraOf(q.Subject), OExtra: extraOf(q.Object), GExtra: extraOf(q.Graph),
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(enc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeQuad(data []byte) (rdf.Quad, error) {
	var enc encodedQuad
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&enc); err != nil {
		return rdf.Quad{}, err
	}
	return rdf.Quad{
		Subject:   termFrom(rdf.Kind(enc.SKind), enc.SVal, enc.SExtra),
		Predicate: termFrom(rdf.Kind(enc.PKind), enc.PVal, ""),
		Object:    termFrom(rdf.Kind(enc.OKind), enc.OVal, enc.OExtra),
		Graph:     termFrom(rdf.Kind(enc.GKind), enc.GVal, enc.GExtra),
	}, nil
}

func extraOf(t rdf.Term) string {
	if t.Kind() == rdf.KindPlainLiteral {
		return t.Lang()
	}
	if t.Kind() == rdf.KindTypedLiteral {
		return t.Datatype()
	}
	return ""
}

func termFrom(kind rdf.Kind, val, extra string) rdf.Term {
	switch kind {
	case rdf.KindIRI:
		return rdf.NewIRI(val)
	case rdf.KindBlankNode:
		return rdf.NewBlankNode(val)
	case rdf.KindPlainLiteral:
		return rdf.NewPlainLiteral(val, extra)
	case rdf.KindTypedLiteral:
		return rdf.NewTypedLiteral(val, extra)
	default:
		return rdf.NewIRI(val)
	}
}
