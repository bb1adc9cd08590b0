package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"

	appctx "tilepos/internal/core/context"
	"tilepos/internal/core/id"
	"tilepos/internal/domain/cart"
	"tilepos/internal/domain/lineitem"
)

// CompressionAlgo specifies the compression algorithm used for snapshots.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// JournalEntry is one settled line state, recorded after each cart mutation.
type JournalEntry struct {
	ID                 id.ID           `db:"id"`
	CartID             id.ID           `db:"cart_id"`
	LineID             id.ID           `db:"line_id"`
	ProductID          id.ID           `db:"product_id"`
	Action             string          `db:"action"`
	SessionID          string          `db:"session_id"`
	TerminalID         string          `db:"terminal_id"`
	Snapshot           json.RawMessage `db:"snapshot"`
	SnapshotCompressed []byte          `db:"snapshot_compressed"`
	CompressionAlgo    CompressionAlgo `db:"compression_algo"`
	CreatedAt          time.Time       `db:"created_at"`
}

// JournalService persists line snapshots for traceability and reads them
// back as cart history. Snapshots above the threshold are zstd-compressed
// before insert.
type JournalService struct {
	txManager         *TxManager
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int // bytes
}

var _ cart.Journal = (*JournalService)(nil)

// NewJournalService creates a new journal service.
func NewJournalService(txManager *TxManager) (*JournalService, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &JournalService{
		txManager:         txManager,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: 4 * 1024, // 4KB
	}, nil
}

// RecordLine records a settled line state.
func (s *JournalService) RecordLine(ctx context.Context, cartID id.ID, action string, line lineitem.LineItem) error {
	snapshot, err := json.Marshal(line)
	if err != nil {
		return fmt.Errorf("marshal line snapshot: %w", err)
	}

	entry := JournalEntry{
		ID:              id.New(),
		CartID:          cartID,
		LineID:          line.ID,
		ProductID:       line.ProductID,
		Action:          action,
		Snapshot:        snapshot,
		CompressionAlgo: CompressionNone,
		CreatedAt:       time.Now().UTC(),
	}

	if session := appctx.GetSession(ctx); session != nil {
		entry.SessionID = session.SessionID
		entry.TerminalID = session.TerminalID
	}

	s.compressEntry(&entry)

	sql := `
		INSERT INTO cart_journal (
			id, cart_id, line_id, product_id, action,
			session_id, terminal_id,
			snapshot, snapshot_compressed, compression_algo,
			created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err = s.txManager.GetQuerier(ctx).Exec(ctx, sql,
		entry.ID, entry.CartID, entry.LineID, entry.ProductID, entry.Action,
		entry.SessionID, entry.TerminalID,
		entry.Snapshot, entry.SnapshotCompressed, entry.CompressionAlgo,
		entry.CreatedAt,
	)
	return err
}

// CartHistory reads back journal entries for a cart, newest first, with
// snapshots decoded back into line state.
func (s *JournalService) CartHistory(ctx context.Context, cartID id.ID, limit int) ([]cart.JournalRecord, error) {
	entries, err := s.Entries(ctx, cartID, limit)
	if err != nil {
		return nil, err
	}

	records := make([]cart.JournalRecord, 0, len(entries))
	for _, e := range entries {
		var line lineitem.LineItem
		if err := json.Unmarshal(e.Snapshot, &line); err != nil {
			return nil, fmt.Errorf("unmarshal line snapshot: %w", err)
		}
		records = append(records, cart.JournalRecord{
			LineID:     e.LineID,
			ProductID:  e.ProductID,
			Action:     e.Action,
			SessionID:  e.SessionID,
			TerminalID: e.TerminalID,
			Line:       line,
			RecordedAt: e.CreatedAt,
		})
	}
	return records, nil
}

// Entries retrieves raw journal entries for a cart, newest first.
func (s *JournalService) Entries(ctx context.Context, cartID id.ID, limit int) ([]JournalEntry, error) {
	sql := `
		SELECT id, cart_id, line_id, product_id, action,
			   session_id, terminal_id,
			   snapshot, snapshot_compressed, compression_algo,
			   created_at
		FROM cart_journal
		WHERE cart_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := s.txManager.GetQuerier(ctx).Query(ctx, sql, cartID, limit)
	if err != nil {
		return nil, fmt.Errorf("query cart history: %w", err)
	}
	defer rows.Close()

	var entries []JournalEntry
	for rows.Next() {
		var e JournalEntry
		err := rows.Scan(
			&e.ID, &e.CartID, &e.LineID, &e.ProductID, &e.Action,
			&e.SessionID, &e.TerminalID,
			&e.Snapshot, &e.SnapshotCompressed, &e.CompressionAlgo,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}

		if err := s.decodeSnapshot(&e); err != nil {
			return nil, err
		}

		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// compressEntry moves the raw snapshot into the compressed column when it
// exceeds the threshold.
func (s *JournalService) compressEntry(entry *JournalEntry) {
	if len(entry.Snapshot) <= s.compressThreshold {
		return
	}
	entry.SnapshotCompressed = s.encoder.EncodeAll(entry.Snapshot, nil)
	entry.Snapshot = nil
	entry.CompressionAlgo = CompressionZstd
}

// decodeSnapshot restores the raw snapshot from the compressed column.
func (s *JournalService) decodeSnapshot(entry *JournalEntry) error {
	if entry.CompressionAlgo != CompressionZstd || len(entry.SnapshotCompressed) == 0 {
		return nil
	}
	decompressed, err := s.decoder.DecodeAll(entry.SnapshotCompressed, nil)
	if err != nil {
		return fmt.Errorf("decompress snapshot: %w", err)
	}
	entry.Snapshot = decompressed
	entry.SnapshotCompressed = nil
	entry.CompressionAlgo = CompressionNone
	return nil
}
