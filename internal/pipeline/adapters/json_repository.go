package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/dylan/pm/internal/pipeline/domain"
	"github.com/dylan/pm/internal/pipeline/ports"
)

const projectsKey = "projects"

// JSONRepository implements ports.Repository using a single JSON document
type JSONRepository struct {
	path   string
	lock   *flock.Flock
	logger *slog.Logger
}

// wireEntry and wireProject mirror the stored document. Fields are declared
// in key order so saved files keep sorted keys.
type wireEntry struct {
	Comment string `json:"comment"`
	Date    string `json:"date"`
	Node    int    `json:"node"`
	Status  string `json:"status"`
}

type wireProject struct {
	History   []wireEntry `json:"history"`
	ID        int         `json:"id"`
	Money     int         `json:"money"`
	MoneyYear int         `json:"money_year"`
	Name      string      `json:"name"`
	PI        string      `json:"pi"`
	Ref       string      `json:"ref"`
	Summary   string      `json:"summary"`
	Type      string      `json:"type"`
}

// NewJSONRepository creates a repository for the database at path
func NewJSONRepository(path string, logger *slog.Logger) (*JSONRepository, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, domain.ErrStorageRead(path, err)
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
		return nil, domain.ErrStorageWrite(absPath, err)
	}

	return &JSONRepository{
		path:   absPath,
		lock:   flock.New(absPath + ".lock"),
		logger: logger,
	}, nil
}

// Path returns the database file location
func (r *JSONRepository) Path() string {
	return r.path
}

// Lock takes the advisory lock guarding the database against concurrent pm runs
func (r *JSONRepository) Lock() error {
	locked, err := r.lock.TryLock()
	if err != nil {
		return domain.WrapError(domain.ErrCodeStorageLocked, "cannot lock database "+r.path, err)
	}
	if !locked {
		return domain.ErrStorageLocked(r.path)
	}
	r.logger.Debug("database locked", "path", r.path)
	return nil
}

// Unlock releases the advisory lock
func (r *JSONRepository) Unlock() error {
	if err := r.lock.Unlock(); err != nil {
		return err
	}
	r.logger.Debug("database unlocked", "path", r.path)
	return nil
}

// Init creates an empty database when none exists yet
func (r *JSONRepository) Init(ctx context.Context) (bool, error) {
	if _, err := os.Stat(r.path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, domain.ErrStorageRead(r.path, err)
	}
	if err := r.Save(ctx, &ports.Snapshot{}); err != nil {
		return false, err
	}
	return true, nil
}

// Load reads the database document
func (r *JSONRepository) Load(ctx context.Context) (*ports.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.WrapError(domain.ErrCodeStorageRead,
				"database "+r.path+" does not exist (run 'pm init' to create it)", err)
		}
		return nil, domain.ErrStorageRead(r.path, err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, domain.ErrStorageRead(r.path, err)
	}

	var wire []wireProject
	if raw, ok := doc[projectsKey]; ok {
		if err := json.Unmarshal(raw, &wire); err != nil {
			return nil, domain.ErrStorageRead(r.path, err)
		}
	}
	delete(doc, projectsKey)

	snapshot := &ports.Snapshot{
		Projects: make([]*domain.Project, 0, len(wire)),
		Extra:    doc,
	}
	for _, wp := range wire {
		project, err := fromWire(wp)
		if err != nil {
			return nil, err
		}
		snapshot.Projects = append(snapshot.Projects, project)
	}

	r.logger.Debug("database loaded", "path", r.path, "projects", len(snapshot.Projects))
	return snapshot, nil
}

// Save writes the database document through a temporary file and a rename,
// so an interrupted write leaves the previous content in place.
func (r *JSONRepository) Save(ctx context.Context, snapshot *ports.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	doc := make(map[string]any, len(snapshot.Extra)+1)
	for k, v := range snapshot.Extra {
		doc[k] = v
	}
	wire := make([]wireProject, 0, len(snapshot.Projects))
	for _, p := range snapshot.Projects {
		wire = append(wire, toWire(p))
	}
	doc[projectsKey] = wire

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(doc); err != nil {
		return domain.ErrStorageWrite(r.path, err)
	}

	if err := r.writeAtomic(buf.Bytes()); err != nil {
		return domain.ErrStorageWrite(r.path, err)
	}

	r.logger.Debug("database saved", "path", r.path, "projects", len(snapshot.Projects))
	return nil
}

func (r *JSONRepository) writeAtomic(data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(r.path), filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return err
	}
	return os.Rename(tmpName, r.path)
}

func fromWire(wp wireProject) (*domain.Project, error) {
	project := &domain.Project{
		ID:        wp.ID,
		Name:      wp.Name,
		Type:      domain.ContractType(wp.Type),
		Money:     wp.Money,
		MoneyYear: wp.MoneyYear,
		PI:        wp.PI,
		Ref:       wp.Ref,
		Summary:   wp.Summary,
		History:   make([]domain.HistoryEntry, 0, len(wp.History)),
	}
	for _, we := range wp.History {
		date, err := domain.ParseStorageDate(we.Date)
		if err != nil {
			return nil, err
		}
		project.History = append(project.History, domain.HistoryEntry{
			Node:    we.Node,
			Status:  domain.Status(we.Status),
			Date:    date,
			Comment: we.Comment,
		})
	}
	project.SortHistory()
	project.EnsureHistory(domain.Now())
	return project, nil
}

func toWire(p *domain.Project) wireProject {
	wp := wireProject{
		History:   make([]wireEntry, 0, len(p.History)),
		ID:        p.ID,
		Money:     p.Money,
		MoneyYear: p.MoneyYear,
		Name:      p.Name,
		PI:        p.PI,
		Ref:       p.Ref,
		Summary:   p.Summary,
		Type:      string(p.Type),
	}
	for _, h := range p.History {
		wp.History = append(wp.History, wireEntry{
			Comment: h.Comment,
			Date:    domain.FormatStorageDate(h.Date),
			Node:    h.Node,
			Status:  string(h.Status),
		})
	}
	return wp
}
