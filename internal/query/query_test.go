package query

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/terra-clan/quiz-engine/internal/models"
	"github.com/terra-clan/quiz-engine/internal/storage"
)

func TestNewAliasTable_Validation(t *testing.T) {
	tests := []struct {
		name    string
		aliases map[string]string
		wantErr bool
	}{
		{"defaults", DefaultAliases, false},
		{"reserved others", map[string]string{"others": "Misc"}, true},
		{"reserved others any case", map[string]string{" Others ": "Misc"}, true},
		{"duplicate canonical", map[string]string{"js": "JavaScript", "javascript": "JavaScript"}, true},
		{"blank canonical", map[string]string{"go": " "}, true},
		{"empty table", map[string]string{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAliasTable(tt.aliases)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewAliasTable() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAliasTable_Resolve(t *testing.T) {
	table := MustDefaultAliasTable()

	tests := map[string]string{
		"js":     "JavaScript",
		"JS":     "JavaScript",
		" node ": "Node Js",
		"ts":     "TypeScript",
		"react":  "React",
		"rust":   "rust",
	}
	for in, want := range tests {
		if got := table.Resolve(in); got != want {
			t.Errorf("Resolve(%q) = %q, want %q", in, got, want)
		}
	}

	want := []string{"JavaScript", "Node Js", "React", "TypeScript"}
	if got := table.Canonical(); !reflect.DeepEqual(got, want) {
		t.Errorf("Canonical() = %v, want %v", got, want)
	}
}

func TestAliasTable_Lookup(t *testing.T) {
	table := MustDefaultAliasTable()

	if got, ok := table.Lookup(" JS "); !ok || got != "JavaScript" {
		t.Errorf("Lookup(js) = %q, %v", got, ok)
	}
	if _, ok := table.Lookup("rust"); ok {
		t.Error("Lookup(rust) should not be an alias")
	}
	if _, ok := table.Lookup("JavaScript"); ok {
		t.Error("canonical names are not aliases")
	}
}

func TestBuilder_Build(t *testing.T) {
	b := NewBuilder(nil)
	known := []string{"JavaScript", "Node Js", "React", "TypeScript"}

	tests := []struct {
		name string
		req  Request
		want models.QuestionFilter
	}{
		{
			name: "empty request imposes nothing",
			req:  Request{},
			want: models.QuestionFilter{},
		},
		{
			name: "attempted",
			req:  Request{Status: "a"},
			want: models.QuestionFilter{AttemptedBy: "u1"},
		},
		{
			name: "not attempted",
			req:  Request{Status: "not"},
			want: models.QuestionFilter{NotAttemptedBy: "u1"},
		},
		{
			name: "unknown tokens ignored",
			req:  Request{Status: "maybe", Difficulty: "x", Sort: "random"},
			want: models.QuestionFilter{},
		},
		{
			name: "difficulty",
			req:  Request{Difficulty: "h"},
			want: models.QuestionFilter{Difficulties: []models.Difficulty{models.DifficultyHard}},
		},
		{
			name: "alias resolves",
			req:  Request{Skills: []string{"js"}},
			want: models.QuestionFilter{Skills: []string{"JavaScript"}},
		},
		{
			name: "unknown skill verbatim",
			req:  Request{Skills: []string{"rust"}},
			want: models.QuestionFilter{Skills: []string{"rust"}},
		},
		{
			name: "others",
			req:  Request{Skills: []string{"others"}},
			want: models.QuestionFilter{IncludeOthers: true, KnownSkills: known},
		},
		{
			name: "skill or others",
			req:  Request{Skills: []string{"react", "others", "react"}},
			want: models.QuestionFilter{Skills: []string{"React"}, IncludeOthers: true, KnownSkills: known},
		},
		{
			name: "empty list falls back to others",
			req:  Request{Skills: []string{}},
			want: models.QuestionFilter{IncludeOthers: true, KnownSkills: known},
		},
		{
			name: "several unknown skills fall back to others",
			req:  Request{Skills: []string{"rust", "python"}},
			want: models.QuestionFilter{IncludeOthers: true, KnownSkills: known},
		},
		{
			name: "unknown skill kept next to an alias",
			req:  Request{Skills: []string{"js", "rust"}},
			want: models.QuestionFilter{Skills: []string{"JavaScript", "rust"}},
		},
		{
			name: "blank tokens fall back to others",
			req:  Request{Skills: []string{" ", ""}},
			want: models.QuestionFilter{IncludeOthers: true, KnownSkills: known},
		},
		{
			name: "sort popularity",
			req:  Request{Sort: "po"},
			want: models.QuestionFilter{Order: models.OrderPopularity},
		},
		{
			name: "combined",
			req:  Request{Sort: "desc", Status: "not", Difficulty: "e", Skills: []string{"ts"}},
			want: models.QuestionFilter{
				NotAttemptedBy: "u1",
				Difficulties:   []models.Difficulty{models.DifficultyEasy},
				Skills:         []string{"TypeScript"},
				Order:          models.OrderDifficultyDesc,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := b.Build(tt.req, "u1")
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Build() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	if got := SplitList(nil); got != nil {
		t.Errorf("SplitList(nil) = %v, want nil", got)
	}
	got := SplitList([]string{"js,ts", " react ", ""})
	want := []string{"js", "ts", "react"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitList() = %v, want %v", got, want)
	}
	if got := SplitList([]string{""}); got == nil || len(got) != 0 {
		t.Errorf("SplitList of blank value = %#v, want empty non-nil", got)
	}
}

func seedQuestions(t *testing.T, repo *storage.MemoryRepository, ids ...string) {
	t.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range ids {
		q := &models.Question{
			ID: id, Question: "q " + id, Answer: "a", Skill: "Go",
			Difficulty: models.DifficultyMedium, CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := repo.CreateQuestion(context.Background(), q); err != nil {
			t.Fatalf("CreateQuestion: %v", err)
		}
	}
}

func TestRandomSelector_NoCandidates(t *testing.T) {
	repo := storage.NewMemoryRepository()
	s := NewRandomSelector(repo)

	_, err := s.Select(context.Background(), models.QuestionFilter{})
	if !errors.Is(err, ErrNoCandidates) {
		t.Fatalf("expected ErrNoCandidates, got %v", err)
	}
}

func TestRandomSelector_SingleCandidate(t *testing.T) {
	repo := storage.NewMemoryRepository()
	seedQuestions(t, repo, "only")
	s := NewRandomSelector(repo)

	for i := 0; i < 20; i++ {
		q, err := s.Select(context.Background(), models.QuestionFilter{})
		if err != nil {
			t.Fatalf("Select: %v", err)
		}
		if q.ID != "only" {
			t.Fatalf("expected the only candidate, got %s", q.ID)
		}
	}
}

func TestRandomSelector_UsesOffset(t *testing.T) {
	repo := storage.NewMemoryRepository()
	seedQuestions(t, repo, "q1", "q2", "q3")

	var gotN int
	s := NewRandomSelector(repo).WithIntn(func(n int) int {
		gotN = n
		return 2
	})

	q, err := s.Select(context.Background(), models.QuestionFilter{})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if gotN != 3 {
		t.Errorf("offset drawn over %d candidates, want 3", gotN)
	}
	if q.ID != "q3" {
		t.Errorf("expected q3 at offset 2, got %s", q.ID)
	}
}

// vanishingSource reports candidates that are gone by the time they are fetched.
type vanishingSource struct {
	counts  int
	fetches int
}

func (v *vanishingSource) CountQuestions(ctx context.Context, filter models.QuestionFilter) (int, error) {
	v.counts++
	return 1, nil
}

func (v *vanishingSource) QuestionAt(ctx context.Context, filter models.QuestionFilter, offset int) (*models.Question, error) {
	v.fetches++
	return nil, nil
}

func TestRandomSelector_RecountsWhenRowVanishes(t *testing.T) {
	src := &vanishingSource{}
	s := NewRandomSelector(src)

	_, err := s.Select(context.Background(), models.QuestionFilter{})
	if !errors.Is(err, ErrNoCandidates) {
		t.Fatalf("expected ErrNoCandidates, got %v", err)
	}
	if src.counts != maxSelectAttempts || src.fetches != maxSelectAttempts {
		t.Errorf("expected %d counts and fetches, got %d and %d", maxSelectAttempts, src.counts, src.fetches)
	}
}

type failingSource struct{}

var errBoom = errors.New("boom")

func (failingSource) CountQuestions(ctx context.Context, filter models.QuestionFilter) (int, error) {
	return 0, errBoom
}

func (failingSource) QuestionAt(ctx context.Context, filter models.QuestionFilter, offset int) (*models.Question, error) {
	return nil, nil
}

func TestRandomSelector_PropagatesErrors(t *testing.T) {
	_, err := NewRandomSelector(failingSource{}).Select(context.Background(), models.QuestionFilter{})
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected wrapped errBoom, got %v", err)
	}
}
