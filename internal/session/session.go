// Package session owns the state of one editing session: the grid,
// its palette, the tool engine and the undo history, plus the
// decode/encode operations that may suspend. Editing itself is
// single-threaded cooperative (one logical owner drives the engine);
// the session only serializes the operations that genuinely overlap
// it, import and encode.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"PixelChat/internal/artifact"
	"PixelChat/internal/canvas"
	"PixelChat/internal/importer"
)

// ErrBusy is returned when an import or encode is requested while one
// is still in flight for this session.
var ErrBusy = errors.New("session has an import or encode in flight")

// Session is the editing state for one user and one fixed grid size.
type Session struct {
	userID string
	width  int
	height int

	grid    *canvas.Grid
	palette *canvas.Palette
	history *canvas.History
	engine  *canvas.Engine

	handles *artifact.HandleTable
	encoder *artifact.Encoder

	mu       sync.Mutex
	busy     bool
	produced []*artifact.Artifact

	ctx    context.Context
	cancel context.CancelFunc
}

// New starts a session with a default palette and a background-filled
// grid. The grid size is fixed for the session's life.
func New(userID string, width, height int, handles *artifact.HandleTable) (*Session, error) {
	palette, err := canvas.NewPalette(canvas.DefaultColors)
	if err != nil {
		return nil, err
	}
	grid := canvas.NewGrid(width, height, uint8(palette.BackgroundIndex()))
	history := canvas.NewHistory()

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		userID:  userID,
		width:   width,
		height:  height,
		grid:    grid,
		palette: palette,
		history: history,
		engine:  canvas.NewEngine(grid, palette, history),
		handles: handles,
		encoder: artifact.NewEncoder(handles),
		ctx:     ctx,
		cancel:  cancel,
	}
	return s, nil
}

func (s *Session) UserID() string           { return s.userID }
func (s *Session) Grid() *canvas.Grid       { return s.grid }
func (s *Session) Palette() *canvas.Palette { return s.palette }
func (s *Session) History() *canvas.History { return s.history }

// Engine returns the current tool engine. After an import replaces
// the session state the engine is rebuilt, so callers re-fetch it
// rather than caching it.
func (s *Session) Engine() *canvas.Engine { return s.engine }

// begin claims the single in-flight slot for import/encode work.
func (s *Session) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return ErrBusy
	}
	s.busy = true
	return nil
}

func (s *Session) end() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}

// ImportImage quantizes a photograph into the session's fixed grid
// size and replaces the live grid, palette, engine and history with
// the result. On any failure, including cancellation by teardown, the
// session is left exactly as it was and no history entry exists for
// the aborted import.
func (s *Session) ImportImage(data []byte, opts importer.Options) error {
	if err := s.begin(); err != nil {
		return err
	}
	defer s.end()

	opts.Width = s.width
	opts.Height = s.height
	grid, palette, err := importer.Import(s.ctx, data, opts)
	if err != nil {
		return fmt.Errorf("session import: %w", err)
	}

	s.grid = grid
	s.palette = palette
	s.history = canvas.NewHistory()
	s.engine = canvas.NewEngine(grid, palette, s.history)
	log.Printf("[SESSION] %s imported image as %dx%d grid, %d colors",
		s.userID, grid.Width(), grid.Height(), palette.Len())
	return nil
}

// EncodeArtifact snapshots the current drawing into a chat-ready
// artifact. Handles produced here are owned by the session until the
// artifact is handed to the transport, and are released at teardown
// if never sent.
func (s *Session) EncodeArtifact(title string, duration int) (*artifact.Artifact, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.end()

	if err := s.ctx.Err(); err != nil {
		return nil, err
	}
	a, err := s.encoder.Encode(s.grid, s.palette, title, duration)
	if err != nil {
		return nil, fmt.Errorf("session encode: %w", err)
	}
	s.mu.Lock()
	s.produced = append(s.produced, a)
	s.mu.Unlock()
	return a, nil
}

// Release disowns an artifact that was handed off (sent into chat);
// its handles now belong to the message's consumer.
func (s *Session) Release(a *artifact.Artifact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.produced {
		if p == a {
			s.produced = append(s.produced[:i], s.produced[i+1:]...)
			return
		}
	}
}

// Close tears the session down: cancels any in-flight import or
// encode and releases every handle still owned by the session.
func (s *Session) Close() {
	s.cancel()
	s.mu.Lock()
	owned := s.produced
	s.produced = nil
	s.mu.Unlock()

	for _, a := range owned {
		s.handles.Release(a.PrimaryHandle)
		s.handles.Release(a.ThumbnailHandle)
	}
	if len(owned) > 0 {
		log.Printf("[SESSION] %s released %d unsent artifacts", s.userID, len(owned))
	}
}
