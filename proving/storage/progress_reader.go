package storage

import (
	"io"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/log"
)

const progressInterval = 10 * time.Second

// progressReader logs transfer progress while a large artifact streams out
// of the backing store.
type progressReader struct {
	io.Reader
	closer io.Closer
	key    string
	total  int64
	read   atomic.Int64
	done   chan struct{}
}

func newProgressReader(r io.ReadCloser, key string, total int64) io.ReadCloser {
	p := &progressReader{
		Reader: r,
		closer: r,
		key:    key,
		total:  total,
		done:   make(chan struct{}),
	}
	go p.report()
	return p
}

func (p *progressReader) report() {
	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()
	for {
		select {
		case <-p.done:
			return
		case <-ticker.C:
			read := p.read.Load()
			if p.total > 0 {
				log.Info("Downloading", "key", p.key, "read", read, "total", p.total, "percent", read*100/p.total)
			} else {
				log.Info("Downloading", "key", p.key, "read", read)
			}
		}
	}
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.Reader.Read(b)
	p.read.Add(int64(n))
	return n, err
}

func (p *progressReader) Close() error {
	select {
	case <-p.done:
	default:
		close(p.done)
	}
	log.Info("Download finished", "key", p.key, "read", p.read.Load(), "total", p.total)
	return p.closer.Close()
}
