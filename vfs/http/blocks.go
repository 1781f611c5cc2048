package http //nolint:revive // intentional naming for domain clarity

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Block cache defaults.
const (
	DefaultBlockSize        int64 = 64 << 10
	DefaultMaxBlocksPerRead       = 4
	DefaultMaxCacheBytes    int64 = 8 << 20
)

// BlockOption configures a BlockReader.
type BlockOption func(*BlockReader)

// WithBlockSize sets the size of cached blocks.
func WithBlockSize(n int64) BlockOption {
	return func(r *BlockReader) {
		r.blockSize = n
	}
}

// WithMaxBlocksPerRead bypasses the cache when a ReadAt spans more than n
// blocks. Values <= 0 disable the limit.
func WithMaxBlocksPerRead(n int) BlockOption {
	return func(r *BlockReader) {
		r.maxBlocksPerRead = n
	}
}

// WithMaxCacheBytes bounds the memory held by cached blocks. The oldest
// blocks are dropped first. Values <= 0 disable the limit.
func WithMaxCacheBytes(n int64) BlockOption {
	return func(r *BlockReader) {
		r.maxBytes = n
	}
}

// BlockReader serves ReadAt from fixed-size blocks of an underlying reader
// and keeps fetched blocks in memory.
//
// Parsing a zip central directory issues many small adjacent reads; over a
// Source each would otherwise be a separate range request. BlockReader is
// safe for concurrent use and fetches each missing block once.
type BlockReader struct {
	src              io.ReaderAt
	size             int64
	blockSize        int64
	maxBlocksPerRead int
	maxBytes         int64

	fetchGroup singleflight.Group // deduplicates concurrent fetches for same block
	mu         sync.Mutex
	blocks     map[int64][]byte
	order      []int64 // insertion order for eviction
	bytes      int64
}

// NewBlockReader wraps src, which holds size bytes.
func NewBlockReader(src io.ReaderAt, size int64, opts ...BlockOption) (*BlockReader, error) {
	if src == nil {
		return nil, errors.New("block reader: source is nil")
	}
	r := &BlockReader{
		src:              src,
		size:             size,
		blockSize:        DefaultBlockSize,
		maxBlocksPerRead: DefaultMaxBlocksPerRead,
		maxBytes:         DefaultMaxCacheBytes,
		blocks:           make(map[int64][]byte),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.blockSize <= 0 || r.blockSize > math.MaxInt32 {
		return nil, fmt.Errorf("block reader: invalid block size %d", r.blockSize)
	}
	return r, nil
}

// Size returns the size of the underlying content.
func (r *BlockReader) Size() int64 {
	return r.size
}

// CachedBytes returns the number of bytes currently held in memory.
func (r *BlockReader) CachedBytes() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bytes
}

// ReadAt implements [io.ReaderAt].
func (r *BlockReader) ReadAt(p []byte, off int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if off < 0 {
		return 0, fmt.Errorf("read at %d: negative offset", off)
	}
	if off >= r.size {
		return 0, io.EOF
	}

	expected := int64(len(p))
	if off+expected > r.size {
		expected = r.size - off
	}

	startBlock := off / r.blockSize
	endBlock := (off + expected - 1) / r.blockSize
	if r.maxBlocksPerRead > 0 && endBlock-startBlock+1 > int64(r.maxBlocksPerRead) {
		return r.src.ReadAt(p, off)
	}

	var n int64
	for blockIndex := startBlock; blockIndex <= endBlock; blockIndex++ {
		blockStart := blockIndex * r.blockSize
		blockEnd := min(blockStart+r.blockSize, r.size)

		data, err := r.block(blockIndex, blockStart, blockEnd-blockStart)
		if err != nil {
			return int(n), err
		}

		copyStart := max(off, blockStart)
		copyEnd := min(off+expected, blockEnd)
		n += int64(copy(p[copyStart-off:copyEnd-off], data[copyStart-blockStart:copyEnd-blockStart]))
	}

	if expected < int64(len(p)) {
		return int(n), io.EOF
	}
	return int(n), nil
}

// block returns the cached block, fetching it on a miss.
func (r *BlockReader) block(index, off, length int64) ([]byte, error) {
	r.mu.Lock()
	data, ok := r.blocks[index]
	r.mu.Unlock()
	if ok {
		return data, nil
	}

	result, err, _ := r.fetchGroup.Do(strconv.FormatInt(index, 10), func() (any, error) {
		// Double-check after acquiring singleflight
		r.mu.Lock()
		data, ok := r.blocks[index]
		r.mu.Unlock()
		if ok {
			return data, nil
		}

		buf := make([]byte, int(length))
		n, err := r.src.ReadAt(buf, off)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		if int64(n) != length {
			return nil, io.ErrUnexpectedEOF
		}
		r.store(index, buf)
		return buf, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil //nolint:forcetypeassert // the group func only returns []byte
}

// store caches a block, evicting the oldest blocks beyond the byte budget.
func (r *BlockReader) store(index int64, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	size := int64(len(data))
	if r.maxBytes > 0 && size > r.maxBytes {
		return
	}
	for r.maxBytes > 0 && r.bytes+size > r.maxBytes && len(r.order) > 0 {
		oldest := r.order[0]
		r.order = r.order[1:]
		r.bytes -= int64(len(r.blocks[oldest]))
		delete(r.blocks, oldest)
	}
	r.blocks[index] = data
	r.order = append(r.order, index)
	r.bytes += size
}
