// Package memory is an in-process Store used by tests and local runs without
// a database. Transactions are serialized and rolled back by restoring a
// snapshot of the state.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/nomzodai/nomzod-api/internal/domain/question"
	"github.com/nomzodai/nomzod-api/internal/domain/user"
	"github.com/nomzodai/nomzod-api/internal/repo"
)

type state struct {
	seq       map[string]int64 // per table, like BIGSERIAL
	users     map[int64]user.User
	images    map[int64]user.Image // keyed by user id
	types     map[int64]question.Type
	questions map[int64]question.Question
}

func newState() *state {
	return &state{
		seq:       make(map[string]int64),
		users:     make(map[int64]user.User),
		images:    make(map[int64]user.Image),
		types:     make(map[int64]question.Type),
		questions: make(map[int64]question.Question),
	}
}

func (s *state) nextID(table string) int64 {
	s.seq[table]++
	return s.seq[table]
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.seq {
		c.seq[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.images {
		c.images[k] = v
	}
	for k, v := range s.types {
		c.types[k] = v
	}
	for k, v := range s.questions {
		c.questions[k] = v
	}
	return c
}

type Store struct {
	mu  sync.Mutex
	st  *state
	now func() time.Time
	repos
}

func NewStore() *Store {
	s := &Store{
		st:  newState(),
		now: func() time.Time { return time.Now().UTC() },
	}
	s.repos = repos{store: s}
	return s
}

// repos inside a transaction already hold the store lock.
type repos struct {
	store *Store
	inTx  bool
}

func (r repos) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.store.mu.Lock()
	return r.store.mu.Unlock
}

func (r repos) Users() repo.UserRepository                 { return &UsersRepo{r} }
func (r repos) UserImages() repo.UserImageRepository       { return &UserImagesRepo{r} }
func (r repos) QuestionTypes() repo.QuestionTypeRepository { return &QuestionTypesRepo{r} }
func (r repos) Questions() repo.QuestionRepository         { return &QuestionsRepo{r} }

func (s *Store) WithTx(ctx context.Context, fn func(tx repo.Repos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	snapshot := s.st.clone()

	if err := fn(repos{store: s, inTx: true}); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// ---- users

type UsersRepo struct{ r repos }

func (u *UsersRepo) withImage(st *state, in user.User) user.User {
	if img, ok := st.images[in.ID]; ok {
		url := img.ImageURL
		in.ImageURL = &url
	}
	return in
}

func (u *UsersRepo) emailTaken(st *state, email string, exceptID int64) bool {
	for _, existing := range st.users {
		if existing.ID != exceptID && strings.EqualFold(existing.Email, email) {
			return true
		}
	}
	return false
}

func (u *UsersRepo) Create(_ context.Context, in user.User) (user.User, error) {
	defer u.r.lock()()
	st := u.r.store.st

	if u.emailTaken(st, in.Email, 0) {
		return user.User{}, user.ErrEmailTaken
	}

	now := u.r.store.now()
	in.ID = st.nextID("users")
	in.ImageURL = nil
	in.CreatedAt = now
	in.UpdatedAt = now
	st.users[in.ID] = in

	return in, nil
}

func (u *UsersRepo) GetByID(_ context.Context, id int64) (user.User, error) {
	defer u.r.lock()()
	st := u.r.store.st

	found, ok := st.users[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u.withImage(st, found), nil
}

func (u *UsersRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	defer u.r.lock()()

	for _, found := range u.r.store.st.users {
		if strings.EqualFold(found.Email, email) {
			return found, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (u *UsersRepo) List(_ context.Context) ([]user.User, error) {
	defer u.r.lock()()
	st := u.r.store.st

	out := make([]user.User, 0, len(st.users))
	for _, found := range st.users {
		out = append(out, u.withImage(st, found))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (u *UsersRepo) Update(_ context.Context, in user.User) (user.User, error) {
	defer u.r.lock()()
	st := u.r.store.st

	existing, ok := st.users[in.ID]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	if u.emailTaken(st, in.Email, in.ID) {
		return user.User{}, user.ErrEmailTaken
	}

	in.CreatedAt = existing.CreatedAt
	in.UpdatedAt = u.r.store.now()
	in.ImageURL = nil
	st.users[in.ID] = in

	return u.withImage(st, in), nil
}

func (u *UsersRepo) Delete(_ context.Context, id int64) error {
	defer u.r.lock()()
	st := u.r.store.st

	if _, ok := st.users[id]; !ok {
		return user.ErrNotFound
	}
	delete(st.users, id)
	// mirrors ON DELETE CASCADE
	delete(st.images, id)

	return nil
}

// ---- user images

type UserImagesRepo struct{ r repos }

func (i *UserImagesRepo) Upsert(_ context.Context, userID int64, imageURL string) (user.Image, error) {
	defer i.r.lock()()
	st := i.r.store.st

	if _, ok := st.users[userID]; !ok {
		return user.Image{}, user.ErrNotFound
	}

	now := i.r.store.now()
	img, ok := st.images[userID]
	if !ok {
		img = user.Image{ID: st.nextID("user_image"), UserID: userID, CreatedAt: now}
	}
	img.ImageURL = imageURL
	img.UpdatedAt = now
	st.images[userID] = img

	return img, nil
}

func (i *UserImagesRepo) GetByUserID(_ context.Context, userID int64) (user.Image, error) {
	defer i.r.lock()()

	img, ok := i.r.store.st.images[userID]
	if !ok {
		return user.Image{}, user.ErrImageNotFound
	}
	return img, nil
}

// ---- question types

type QuestionTypesRepo struct{ r repos }

func (q *QuestionTypesRepo) nameTaken(st *state, name string, exceptID int64) bool {
	for _, t := range st.types {
		if t.ID != exceptID && t.TypeName == name {
			return true
		}
	}
	return false
}

func (q *QuestionTypesRepo) Create(_ context.Context, typeName string) (question.Type, error) {
	defer q.r.lock()()
	st := q.r.store.st

	if q.nameTaken(st, typeName, 0) {
		return question.Type{}, question.ErrTypeNameTaken
	}

	now := q.r.store.now()
	t := question.Type{ID: st.nextID("question_type"), TypeName: typeName, CreatedAt: now, UpdatedAt: now}
	st.types[t.ID] = t

	return t, nil
}

func (q *QuestionTypesRepo) GetByID(_ context.Context, id int64) (question.Type, error) {
	defer q.r.lock()()

	t, ok := q.r.store.st.types[id]
	if !ok {
		return question.Type{}, question.ErrTypeNotFound
	}
	return t, nil
}

func (q *QuestionTypesRepo) List(_ context.Context) ([]question.Type, error) {
	defer q.r.lock()()
	st := q.r.store.st

	out := make([]question.Type, 0, len(st.types))
	for _, t := range st.types {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (q *QuestionTypesRepo) Update(_ context.Context, in question.Type) (question.Type, error) {
	defer q.r.lock()()
	st := q.r.store.st

	existing, ok := st.types[in.ID]
	if !ok {
		return question.Type{}, question.ErrTypeNotFound
	}
	if q.nameTaken(st, in.TypeName, in.ID) {
		return question.Type{}, question.ErrTypeNameTaken
	}

	existing.TypeName = in.TypeName
	existing.UpdatedAt = q.r.store.now()
	st.types[in.ID] = existing

	return existing, nil
}

func (q *QuestionTypesRepo) Delete(_ context.Context, id int64) error {
	defer q.r.lock()()
	st := q.r.store.st

	if _, ok := st.types[id]; !ok {
		return question.ErrTypeNotFound
	}
	// questions keep their type_id, same as the postgres schema
	delete(st.types, id)

	return nil
}

// ---- questions

type QuestionsRepo struct{ r repos }

func (q *QuestionsRepo) withType(st *state, in question.Question) question.Question {
	in.Type = nil
	if t, ok := st.types[in.TypeID]; ok {
		in.Type = t.Summary()
	}
	return in
}

func (q *QuestionsRepo) filter(keep func(question.Question) bool) []question.Question {
	st := q.r.store.st

	out := make([]question.Question, 0)
	for _, found := range st.questions {
		if keep(found) {
			out = append(out, q.withType(st, found))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}

func (q *QuestionsRepo) Create(_ context.Context, in question.Question) (question.Question, error) {
	defer q.r.lock()()
	st := q.r.store.st

	now := q.r.store.now()
	in.ID = st.nextID("question")
	in.Type = nil
	in.CreatedAt = now
	in.UpdatedAt = now
	st.questions[in.ID] = in

	return q.withType(st, in), nil
}

func (q *QuestionsRepo) GetByID(_ context.Context, id int64) (question.Question, error) {
	defer q.r.lock()()
	st := q.r.store.st

	found, ok := st.questions[id]
	if !ok {
		return question.Question{}, question.ErrQuestionNotFound
	}
	return q.withType(st, found), nil
}

func (q *QuestionsRepo) List(_ context.Context) ([]question.Question, error) {
	defer q.r.lock()()

	return q.filter(func(question.Question) bool { return true }), nil
}

func (q *QuestionsRepo) ListByType(_ context.Context, typeID int64) ([]question.Question, error) {
	defer q.r.lock()()

	return q.filter(func(found question.Question) bool { return found.TypeID == typeID }), nil
}

func (q *QuestionsRepo) Update(_ context.Context, in question.Question) (question.Question, error) {
	defer q.r.lock()()
	st := q.r.store.st

	existing, ok := st.questions[in.ID]
	if !ok {
		return question.Question{}, question.ErrQuestionNotFound
	}

	existing.Text = in.Text
	existing.Answer = in.Answer
	existing.TypeID = in.TypeID
	existing.UpdatedAt = q.r.store.now()
	st.questions[in.ID] = existing

	return q.withType(st, existing), nil
}

func (q *QuestionsRepo) Delete(_ context.Context, id int64) error {
	defer q.r.lock()()
	st := q.r.store.st

	if _, ok := st.questions[id]; !ok {
		return question.ErrQuestionNotFound
	}
	delete(st.questions, id)

	return nil
}
