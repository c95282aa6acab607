package storage

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// DefaultChunkSize bounds the number of IDs sent in one lookup.
const DefaultChunkSize = 100

// maxChunkWorkers bounds concurrent lookups for one ID set.
const maxChunkWorkers = 4

// UniqueIDs returns ids without empty strings and duplicates, keeping order.
func UniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// Chunk splits ids into slices of at most size elements.
func Chunk(ids []string, size int) [][]string {
	if size <= 0 {
		size = DefaultChunkSize
	}
	var chunks [][]string
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}

// FetchByIDs resolves ids with fetch, at most chunkSize IDs per call, running
// chunks concurrently. The first failing chunk cancels the rest and its error
// is returned; no partial result is returned with an error.
func FetchByIDs[T any](ctx context.Context, ids []string, chunkSize int, fetch func(context.Context, []string) (map[string]T, error)) (map[string]T, error) {
	ids = UniqueIDs(ids)
	out := make(map[string]T, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxChunkWorkers)
	for _, chunk := range Chunk(ids, chunkSize) {
		g.Go(func() error {
			found, err := fetch(gctx, chunk)
			if err != nil {
				return err
			}
			mu.Lock()
			for k, v := range found {
				out[k] = v
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
