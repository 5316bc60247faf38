package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/types"
)

// ResumeRepository is the typed CRUD surface over saved resumes.
type ResumeRepository interface {
	List(ctx context.Context) ([]types.SavedResume, error)
	Get(ctx context.Context, id string) (*types.SavedResume, error)
	FindByTitle(ctx context.Context, title string) (*types.SavedResume, error)
	Search(ctx context.Context, query string) ([]types.SavedResume, error)
	Create(ctx context.Context, draft types.Draft) (*types.SavedResume, error)
	Update(ctx context.Context, resume types.SavedResume) error
	Rename(ctx context.Context, id, title string) error
	Duplicate(ctx context.Context, id, title string) (*types.SavedResume, error)
	Delete(ctx context.Context, id string) error
	DeleteAt(ctx context.Context, index int) error
	OnChange(fn func()) (unsubscribe func())
}

// KVResumeRepository keeps the whole resume list as one JSON array under KeyResumes.
type KVResumeRepository struct {
	kv    KeyValue
	now   func() time.Time
	newID func() string
}

// NewResumeRepository returns a repository backed by kv.
func NewResumeRepository(kv KeyValue) *KVResumeRepository {
	return &KVResumeRepository{
		kv:    kv,
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
	}
}

func (r *KVResumeRepository) load() ([]types.SavedResume, error) {
	data, ok, err := r.kv.Get(KeyResumes)
	if err != nil {
		return nil, err
	}
	if !ok || len(data) == 0 {
		return []types.SavedResume{}, nil
	}
	var list []types.SavedResume
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, &CorruptError{Key: KeyResumes, Cause: err}
	}
	return list, nil
}

func (r *KVResumeRepository) save(list []types.SavedResume) error {
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to encode resumes: %w", err)
	}
	return r.kv.Set(KeyResumes, data)
}

// List returns every saved resume in insertion order.
func (r *KVResumeRepository) List(_ context.Context) ([]types.SavedResume, error) {
	return r.load()
}

// Get returns the resume with the given id.
func (r *KVResumeRepository) Get(_ context.Context, id string) (*types.SavedResume, error) {
	list, err := r.load()
	if err != nil {
		return nil, err
	}
	if i := indexByID(list, id); i >= 0 {
		return &list[i], nil
	}
	return nil, &NotFoundError{By: "id", Value: id}
}

// FindByTitle returns the first resume whose title matches, ignoring case and
// surrounding whitespace.
func (r *KVResumeRepository) FindByTitle(_ context.Context, title string) (*types.SavedResume, error) {
	list, err := r.load()
	if err != nil {
		return nil, err
	}
	if i := indexByTitle(list, title); i >= 0 {
		return &list[i], nil
	}
	return nil, &NotFoundError{By: "title", Value: title}
}

// Search returns resumes whose title contains query, case-insensitively.
// An empty query returns everything.
func (r *KVResumeRepository) Search(_ context.Context, query string) ([]types.SavedResume, error) {
	list, err := r.load()
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return list, nil
	}
	out := []types.SavedResume{}
	for _, res := range list {
		if strings.Contains(strings.ToLower(res.Title), q) {
			out = append(out, res)
		}
	}
	return out, nil
}

// Create appends a new record with a fresh id and creation time.
func (r *KVResumeRepository) Create(_ context.Context, draft types.Draft) (*types.SavedResume, error) {
	list, err := r.load()
	if err != nil {
		return nil, err
	}

	id := r.newID()
	for indexByID(list, id) >= 0 {
		id = r.newID()
	}

	title := strings.TrimSpace(draft.Title)
	if title == "" {
		title = "Untitled Resume"
	}
	content := draft.Clone()
	content.Title = title

	rec := types.SavedResume{
		ID:        id,
		Title:     title,
		CreatedAt: r.now().UTC(),
		Content:   content,
	}
	list = append(list, rec)
	if err := r.save(list); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Update replaces a record in place, matching by id when set and by title otherwise.
// The original id and creation time are kept.
func (r *KVResumeRepository) Update(_ context.Context, resume types.SavedResume) error {
	list, err := r.load()
	if err != nil {
		return err
	}

	i := -1
	if resume.ID != "" {
		i = indexByID(list, resume.ID)
		if i < 0 {
			return &NotFoundError{By: "id", Value: resume.ID}
		}
	} else {
		i = indexByTitle(list, resume.Title)
		if i < 0 {
			return &NotFoundError{By: "title", Value: resume.Title}
		}
	}

	resume.ID = list[i].ID
	resume.CreatedAt = list[i].CreatedAt
	if strings.TrimSpace(resume.Title) == "" {
		resume.Title = list[i].Title
	}
	resume.Content = resume.Content.Clone()
	resume.Content.Title = resume.Title
	list[i] = resume
	return r.save(list)
}

// Rename changes the title of the record with the given id.
func (r *KVResumeRepository) Rename(ctx context.Context, id, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("title cannot be empty")
	}
	rec, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	rec.Title = title
	return r.Update(ctx, *rec)
}

// Duplicate copies the record with the given id under a new title.
// An empty title produces "<original> (copy)".
func (r *KVResumeRepository) Duplicate(ctx context.Context, id, title string) (*types.SavedResume, error) {
	rec, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	draft := rec.Content.Clone()
	draft.Title = strings.TrimSpace(title)
	if draft.Title == "" {
		draft.Title = rec.Title + " (copy)"
	}
	return r.Create(ctx, draft)
}

// Delete removes the record with the given id.
func (r *KVResumeRepository) Delete(_ context.Context, id string) error {
	list, err := r.load()
	if err != nil {
		return err
	}
	i := indexByID(list, id)
	if i < 0 {
		return &NotFoundError{By: "id", Value: id}
	}
	return r.save(append(list[:i], list[i+1:]...))
}

// DeleteAt removes the record at a list position, as shown in the gallery.
func (r *KVResumeRepository) DeleteAt(_ context.Context, index int) error {
	list, err := r.load()
	if err != nil {
		return err
	}
	if index < 0 || index >= len(list) {
		return &NotFoundError{By: "index", Value: strconv.Itoa(index)}
	}
	return r.save(append(list[:index], list[index+1:]...))
}

// OnChange calls fn whenever the resume list key is written. Readers that need
// fresh data re-read from the repository inside fn.
func (r *KVResumeRepository) OnChange(fn func()) func() {
	return r.kv.Subscribe(func(key string) {
		if key == KeyResumes {
			fn()
		}
	})
}

func indexByID(list []types.SavedResume, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}

func indexByTitle(list []types.SavedResume, title string) int {
	title = strings.TrimSpace(title)
	if title == "" {
		return -1
	}
	for i := range list {
		if strings.EqualFold(strings.TrimSpace(list[i].Title), title) {
			return i
		}
	}
	return -1
}
