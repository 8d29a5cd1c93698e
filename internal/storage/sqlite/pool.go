package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	apperrors "github.com/vbamtools/campaignstore/internal/platform/errors"
	"github.com/vbamtools/campaignstore/internal/platform/timeouts"
	"github.com/vbamtools/campaignstore/internal/storage"
	_ "modernc.org/sqlite"
)

const defaultReaders = 4

// dsnParams carries the engine settings used for every campaign file:
// WAL journaling so readers run alongside the writer, foreign keys on,
// and a busy handler covering short lock contention. The driver only
// applies pragmas passed in _pragma=name(value) form.
func dsnParams(busy time.Duration) string {
	return fmt.Sprintf("_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(%d)&_pragma=synchronous(NORMAL)", busy.Milliseconds())
}

// pool owns the database handles for one campaign file: a single write
// handle guarded by a slot semaphore, and a bounded set of read handles.
//
// The pool starts gated: acquisitions suspend until admit is called once
// the migration runner reaches a terminal state. Closing the pool fails
// every queued acquisition with POOL_CLOSED.
type pool struct {
	writeDB   *sql.DB
	readDB    *sql.DB
	writeSlot chan struct{}
	readSlots chan struct{}
	admitted  chan struct{}
	closed    chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

func openPool(path string, readers int, busy time.Duration) (*pool, error) {
	if strings.TrimSpace(path) == "" {
		return nil, apperrors.New(apperrors.CodeIO, "storage path is required")
	}
	if readers <= 0 {
		readers = defaultReaders
	}
	if busy <= 0 {
		busy = timeouts.Busy
	}

	cleanPath := filepath.Clean(path)
	params := dsnParams(busy)

	// The writer takes the file lock at BEGIN so submission order is the
	// commit order.
	writeDB, err := sql.Open("sqlite", cleanPath+"?"+params+"&_txlock=immediate")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeIO, "open sqlite write handle", err)
	}
	writeDB.SetMaxOpenConns(1)

	if err := writeDB.Ping(); err != nil {
		_ = writeDB.Close()
		return nil, classify(context.Background(), "ping sqlite db", err)
	}

	readDB, err := sql.Open("sqlite", cleanPath+"?"+params)
	if err != nil {
		_ = writeDB.Close()
		return nil, apperrors.Wrap(apperrors.CodeIO, "open sqlite read handles", err)
	}
	readDB.SetMaxOpenConns(readers)

	p := &pool{
		writeDB:   writeDB,
		readDB:    readDB,
		writeSlot: make(chan struct{}, 1),
		readSlots: make(chan struct{}, readers),
		admitted:  make(chan struct{}),
		closed:    make(chan struct{}),
	}
	p.writeSlot <- struct{}{}
	for i := 0; i < readers; i++ {
		p.readSlots <- struct{}{}
	}
	return p, nil
}

// admit opens the pool to repository traffic. Called exactly once, after
// the migration runner reaches Committed.
func (p *pool) admit() {
	close(p.admitted)
}

func (p *pool) isClosed() bool {
	select {
	case <-p.closed:
		return true
	default:
		return false
	}
}

// await suspends until the pool is admitted, the context ends, or the pool
// closes.
func (p *pool) await(ctx context.Context) error {
	if p.isClosed() {
		return storage.ErrPoolClosed
	}
	select {
	case <-p.admitted:
		return nil
	case <-p.closed:
		return storage.ErrPoolClosed
	case <-ctx.Done():
		return classify(ctx, "acquire connection", ctx.Err())
	}
}

// acquireWrite checks out the single write handle. The returned release
// function must be called exactly once, including on error paths.
func (p *pool) acquireWrite(ctx context.Context) (*sql.Conn, func(), error) {
	if err := p.await(ctx); err != nil {
		return nil, nil, err
	}
	select {
	case <-p.writeSlot:
	case <-p.closed:
		return nil, nil, storage.ErrPoolClosed
	case <-ctx.Done():
		return nil, nil, classify(ctx, "acquire write slot", ctx.Err())
	}

	conn, err := p.writeDB.Conn(ctx)
	if err != nil {
		p.writeSlot <- struct{}{}
		if p.isClosed() {
			return nil, nil, storage.ErrPoolClosed
		}
		return nil, nil, classify(ctx, "acquire write connection", err)
	}

	p.wg.Add(1)
	var once sync.Once
	release := func() {
		once.Do(func() {
			_ = conn.Close()
			p.writeSlot <- struct{}{}
			p.wg.Done()
		})
	}
	return conn, release, nil
}

// acquireRead checks out one of the shared read handles. Acquisitions
// queued behind busy readers wait on the slot semaphore, so a pool close
// fails them with POOL_CLOSED instead of a driver error.
func (p *pool) acquireRead(ctx context.Context) (*sql.Conn, func(), error) {
	if err := p.await(ctx); err != nil {
		return nil, nil, err
	}
	select {
	case <-p.readSlots:
	case <-p.closed:
		return nil, nil, storage.ErrPoolClosed
	case <-ctx.Done():
		return nil, nil, classify(ctx, "acquire read slot", ctx.Err())
	}

	conn, err := p.readDB.Conn(ctx)
	if err != nil {
		p.readSlots <- struct{}{}
		if p.isClosed() {
			return nil, nil, storage.ErrPoolClosed
		}
		return nil, nil, classify(ctx, "acquire read connection", err)
	}

	p.wg.Add(1)
	var once sync.Once
	release := func() {
		once.Do(func() {
			_ = conn.Close()
			p.readSlots <- struct{}{}
			p.wg.Done()
		})
	}
	return conn, release, nil
}

// close drains in-flight operations, bounded by the context, then releases
// both handles. Waiters queued on the pool fail with POOL_CLOSED.
func (p *pool) close(ctx context.Context) error {
	var drainErr error
	p.closeOnce.Do(func() {
		close(p.closed)

		done := make(chan struct{})
		go func() {
			p.wg.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-ctx.Done():
			drainErr = apperrors.Wrap(apperrors.CodeTimeout, "drain in-flight operations", ctx.Err())
		}
	})

	readErr := p.readDB.Close()
	writeErr := p.writeDB.Close()
	if drainErr != nil {
		return drainErr
	}
	if readErr != nil {
		return apperrors.Wrap(apperrors.CodeIO, "close read handles", readErr)
	}
	if writeErr != nil {
		return apperrors.Wrap(apperrors.CodeIO, "close write handle", writeErr)
	}
	return nil
}
