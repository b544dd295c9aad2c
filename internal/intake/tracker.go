// Package intake tracks uploaded files per checklist item while their
// payloads are read in the background.
package intake

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/suretydesk/suretydesk/internal/domain"
)

// completion is the result of one background read. It is applied to
// whichever record still carries fileID; a removed record swallows it.
type completion struct {
	itemID  string
	fileID  string
	payload []byte
	err     error
}

// Tracker owns the IntakeMap for one session.
type Tracker struct {
	mu      sync.Mutex
	buckets domain.IntakeMap
	order   []string
	wg      sync.WaitGroup
	log     *zap.Logger
	now     func() time.Time

	// OnComplete, when set, is called after each background read resolves,
	// outside the lock.
	OnComplete func(domain.FileRecord)
}

func NewTracker(log *zap.Logger) *Tracker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Tracker{
		buckets: domain.IntakeMap{},
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// AddFile appends an UPLOADING record to itemID's bucket and starts reading
// src in the background. The returned record is the pending snapshot.
func (t *Tracker) AddFile(itemID string, src Source) domain.FileRecord {
	rec := domain.FileRecord{
		FileID:       uuid.New().String(),
		OriginalName: src.Name(),
		DisplayName:  src.Name(),
		MIMEType:     src.MIMEType(),
		Status:       domain.FileUploading,
		AddedAt:      t.now(),
	}

	t.mu.Lock()
	t.appendLocked(itemID, rec)
	t.mu.Unlock()

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		data, err := ReadAll(src)
		t.apply(completion{itemID: itemID, fileID: rec.FileID, payload: data, err: err})
	}()

	return rec
}

func (t *Tracker) apply(c completion) {
	t.mu.Lock()
	itemID, idx := t.locateLocked(c.itemID, c.fileID)
	if idx < 0 {
		t.mu.Unlock()
		t.log.Debug("dropping completion for removed file",
			zap.String("item", c.itemID), zap.String("file_id", c.fileID))
		return
	}
	c.itemID = itemID
	rec := &t.buckets[itemID][idx]
	if c.err != nil {
		rec.Status = domain.FileError
		rec.Err = c.err.Error()
	} else {
		rec.Status = domain.FileDone
		rec.Payload = c.payload
	}
	snapshot := rec.Clone()
	t.mu.Unlock()

	if c.err != nil {
		t.log.Warn("file read failed",
			zap.String("item", c.itemID), zap.String("file", snapshot.OriginalName), zap.Error(c.err))
	} else {
		t.log.Debug("file read",
			zap.String("item", c.itemID), zap.String("file", snapshot.OriginalName), zap.Int("bytes", len(c.payload)))
	}
	if t.OnComplete != nil {
		t.OnComplete(snapshot)
	}
}

// locateLocked finds fileID, looking in hint first. Records move between
// buckets when the checklist changes under them.
func (t *Tracker) locateLocked(hint, fileID string) (string, int) {
	if i := indexOf(t.buckets[hint], fileID); i >= 0 {
		return hint, i
	}
	for _, id := range t.order {
		if id == hint {
			continue
		}
		if i := indexOf(t.buckets[id], fileID); i >= 0 {
			return id, i
		}
	}
	return "", -1
}

func indexOf(files []domain.FileRecord, fileID string) int {
	for i := range files {
		if files[i].FileID == fileID {
			return i
		}
	}
	return -1
}

// Rehome moves every bucket whose id fails keep into the catch-all bucket,
// in first-use order, and returns the number of records moved. No record is
// dropped.
func (t *Tracker) Rehome(keep func(itemID string) bool) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	moved := 0
	order := t.order[:0:0]
	var orphans []string
	for _, id := range t.order {
		if id == domain.CatchAllItemID || keep(id) {
			order = append(order, id)
			continue
		}
		orphans = append(orphans, id)
	}
	t.order = order
	for _, id := range orphans {
		for _, rec := range t.buckets[id] {
			t.appendLocked(domain.CatchAllItemID, rec)
			moved++
		}
		delete(t.buckets, id)
	}
	if moved > 0 {
		t.log.Debug("rehomed files to catch-all", zap.Strings("items", orphans), zap.Int("files", moved))
	}
	return moved
}

// Discard drops every record and payload. Reads still in flight resolve
// against an empty map and are ignored.
func (t *Tracker) Discard() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buckets = domain.IntakeMap{}
	t.order = nil
}

// RemoveFile deletes a record. Missing ids are ignored.
func (t *Tracker) RemoveFile(itemID, fileID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	files := t.buckets[itemID]
	for i := range files {
		if files[i].FileID == fileID {
			t.buckets[itemID] = append(files[:i:i], files[i+1:]...)
			return
		}
	}
}

// AppendBatch appends already-read records to several buckets at once.
// Readers never observe a partially applied batch.
func (t *Tracker) AppendBatch(batch map[string][]domain.FileRecord) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, itemID := range sortedKeys(batch) {
		for _, rec := range batch[itemID] {
			if rec.FileID == "" {
				rec.FileID = uuid.New().String()
			}
			if rec.AddedAt.IsZero() {
				rec.AddedAt = t.now()
			}
			t.appendLocked(itemID, rec)
		}
	}
}

func (t *Tracker) appendLocked(itemID string, rec domain.FileRecord) {
	if _, ok := t.buckets[itemID]; !ok {
		t.order = append(t.order, itemID)
	}
	t.buckets[itemID] = append(t.buckets[itemID], rec)
}

func (t *Tracker) Count(itemID string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.buckets[itemID])
}

func (t *Tracker) CountAll() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.buckets.Count()
}

// Bucket returns a copy of one bucket's records.
func (t *Tracker) Bucket(itemID string) []domain.FileRecord {
	t.mu.Lock()
	defer t.mu.Unlock()
	return cloneRecords(t.buckets[itemID])
}

// Snapshot returns a deep copy of the whole map.
func (t *Tracker) Snapshot() domain.IntakeMap {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(domain.IntakeMap, len(t.buckets))
	for id, files := range t.buckets {
		out[id] = cloneRecords(files)
	}
	return out
}

// DoneFiles returns every DONE record, bucket by bucket in first-use order.
// UPLOADING and ERROR records are left out of downstream submissions.
func (t *Tracker) DoneFiles() []domain.FileRecord {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []domain.FileRecord
	for _, id := range t.order {
		for _, rec := range t.buckets[id] {
			if rec.Status == domain.FileDone {
				out = append(out, rec.Clone())
			}
		}
	}
	return out
}

// Wait blocks until every background read has resolved.
func (t *Tracker) Wait() {
	t.wg.Wait()
}

func cloneRecords(files []domain.FileRecord) []domain.FileRecord {
	if files == nil {
		return nil
	}
	out := make([]domain.FileRecord, len(files))
	for i, f := range files {
		out[i] = f.Clone()
	}
	return out
}

func sortedKeys(m map[string][]domain.FileRecord) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
