package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/jamspace/jamspace/internal/model"
	"github.com/jamspace/jamspace/internal/repository"
)

// -------- test fakes --------

type fakeStorage struct {
	mu        sync.Mutex
	objects   map[string][]byte
	deleted   []string
	saveErr   error
	signErr   error
	signCalls int
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte)}
}

func (f *fakeStorage) Save(ctx context.Context, path string, body io.Reader, size int64, contentType string) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[path] = b
	return nil
}

func (f *fakeStorage) Delete(ctx context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, path)
	f.deleted = append(f.deleted, path)
	return nil
}

func (f *fakeStorage) SignedURL(ctx context.Context, path string, expiry time.Duration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.signErr != nil {
		return "", f.signErr
	}
	f.signCalls++
	return fmt.Sprintf("https://files.test/%s?expires=%d&n=%d", path, int(expiry.Seconds()), f.signCalls), nil
}

// failingKV fails writes to keys under prefix once armed.
type failingKV struct {
	repository.KVStore
	prefix string
	armed  bool
}

func (f *failingKV) Set(ctx context.Context, key string, value any) error {
	if f.armed && strings.HasPrefix(key, f.prefix) {
		return errors.New("kv unavailable")
	}
	return f.KVStore.Set(ctx, key, value)
}

type fakeUserRepo struct {
	mu      sync.Mutex
	users   map[string]*model.User
	deleted []string
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) ByID(ctx context.Context, id string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) ByEmail(ctx context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUserRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(f.users, id)
	f.deleted = append(f.deleted, id)
	return nil
}

// -------- fixtures --------

type fixture struct {
	kv       *failingKV
	storage  *fakeStorage
	profiles repository.ProfileRepository
	projects repository.ProjectRepository

	profileService  *ProfileService
	projectService  *ProjectService
	fileService     *FileService
	discoverService *DiscoverService
}

const testMaxUpload = 1 << 20

func newFixture() *fixture {
	kv := &failingKV{KVStore: repository.NewMemoryKVStore()}
	store := newFakeStorage()
	profiles := repository.NewProfileRepository(kv)
	projects := repository.NewProjectRepository(kv)
	profileService := NewProfileService(profiles, projects)

	return &fixture{
		kv:              kv,
		storage:         store,
		profiles:        profiles,
		projects:        projects,
		profileService:  profileService,
		projectService:  NewProjectService(projects, profileService, store, time.Hour),
		fileService:     NewFileService(projects, store, time.Hour, testMaxUpload),
		discoverService: NewDiscoverService(profiles, 20),
	}
}

func testIdentity(id, name, role string) *model.User {
	return &model.User{
		ID:       id,
		Email:    id + "@example.com",
		Metadata: model.UserMetadata{Name: name, Role: role},
	}
}

func (f *fixture) createProfile(id, name, role string, skills ...string) *model.Profile {
	p, err := f.profileService.Create(context.Background(), NewProfile{
		ID:     id,
		Name:   name,
		Role:   role,
		Email:  id + "@example.com",
		Skills: skills,
	})
	if err != nil {
		panic(err)
	}
	return p
}

func textUpload(name, body string) *Upload {
	return &Upload{
		Name:        name,
		Size:        int64(len(body)),
		ContentType: "text/plain",
		Body:        bytes.NewBufferString(body),
	}
}

func mustJSON(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
