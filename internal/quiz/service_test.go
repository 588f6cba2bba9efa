package quiz

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/terra-clan/quiz-engine/internal/auth"
	"github.com/terra-clan/quiz-engine/internal/models"
	"github.com/terra-clan/quiz-engine/internal/query"
	"github.com/terra-clan/quiz-engine/internal/storage"
)

type fixture struct {
	svc     *Service
	repo    *storage.MemoryRepository
	tokens  *auth.TokenIssuer
	revoked *auth.MemoryRevocationStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	tokens, err := auth.NewTokenIssuer("service-test-secret-0123", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenIssuer: %v", err)
	}
	repo := storage.NewMemoryRepository()
	revoked := auth.NewMemoryRevocationStore()
	svc := NewService(repo, tokens, revoked, query.NewBuilder(nil), bcrypt.MinCost)
	return &fixture{svc: svc, repo: repo, tokens: tokens, revoked: revoked}
}

// register creates an account and sets its role directly in the repository.
func (f *fixture) register(t *testing.T, name, email string, role models.UserType) *models.Principal {
	t.Helper()
	ctx := context.Background()

	resp, err := f.svc.Register(ctx, models.RegisterRequest{Name: name, Email: email, Password: "password1"})
	if err != nil {
		t.Fatalf("Register(%s): %v", email, err)
	}
	if role != models.UserClient {
		if err := f.repo.UpdatePrincipalRole(ctx, resp.User.ID, role); err != nil {
			t.Fatalf("UpdatePrincipalRole: %v", err)
		}
	}

	p, err := f.repo.GetPrincipal(ctx, resp.User.ID)
	if err != nil || p == nil {
		t.Fatalf("GetPrincipal: %v", err)
	}
	return p
}

func (f *fixture) addQuestion(t *testing.T, creator *models.Principal, skill string, d models.Difficulty) *models.Question {
	t.Helper()
	q, err := f.svc.CreateQuestion(context.Background(), creator, models.CreateQuestionRequest{
		Question: "What is " + skill + "?", Answer: "an answer", Skill: skill, Difficulty: d,
	})
	if err != nil {
		t.Fatalf("CreateQuestion: %v", err)
	}
	return q
}

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.svc.Register(ctx, models.RegisterRequest{Name: "Jane Doe", Email: " Jane@Example.com ", Password: "secret"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if resp.User.UserType != models.UserClient {
		t.Errorf("new user role = %s, want client", resp.User.UserType)
	}
	if resp.User.Email != "jane@example.com" {
		t.Errorf("email not normalized: %q", resp.User.Email)
	}
	if len(resp.User.Tag) != len("@jane")+4 || resp.User.Tag[:5] != "@jane" {
		t.Errorf("unexpected tag %q", resp.User.Tag)
	}
	claims, err := f.tokens.Parse(resp.Token)
	if err != nil || claims.UserID != resp.User.ID {
		t.Fatalf("token does not identify the user: %v, %v", claims, err)
	}

	if _, err := f.svc.Register(ctx, models.RegisterRequest{Name: "J", Email: "jane@example.com", Password: "x"}); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate register: expected ErrEmailTaken, got %v", err)
	}
	if _, err := f.svc.Register(ctx, models.RegisterRequest{Name: "", Email: "x@example.com", Password: "x"}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("missing name: expected ErrInvalidInput, got %v", err)
	}

	long := models.RegisterRequest{Name: "Long", Email: "long@example.com", Password: strings.Repeat("x", auth.MaxPasswordLength+1)}
	if _, err := f.svc.Register(ctx, long); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("password over bcrypt limit: expected ErrInvalidInput, got %v", err)
	}
	long.Password = strings.Repeat("x", auth.MaxPasswordLength)
	if _, err := f.svc.Register(ctx, long); err != nil {
		t.Errorf("password at bcrypt limit: %v", err)
	}

	if _, err := f.svc.Login(ctx, models.LoginRequest{Email: "JANE@example.com", Password: "secret"}); err != nil {
		t.Errorf("Login: %v", err)
	}
	if _, err := f.svc.Login(ctx, models.LoginRequest{Email: "jane@example.com", Password: "wrong"}); !errors.Is(err, ErrInvalidPassword) {
		t.Errorf("bad password: expected ErrInvalidPassword, got %v", err)
	}
	if _, err := f.svc.Login(ctx, models.LoginRequest{Email: "nobody@example.com", Password: "x"}); !errors.Is(err, ErrPrincipalNotFound) {
		t.Errorf("unknown email: expected ErrPrincipalNotFound, got %v", err)
	}
}

func TestCreateQuestion_Authorization(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	client := f.register(t, "Client", "client@example.com", models.UserClient)
	creator := f.register(t, "Creator", "creator@example.com", models.UserCreator)

	req := models.CreateQuestionRequest{Question: "Q?", Answer: "A", Skill: "Go"}

	if _, err := f.svc.CreateQuestion(ctx, client, req); !errors.Is(err, auth.ErrForbidden) {
		t.Fatalf("client: expected ErrForbidden, got %v", err)
	}

	q, err := f.svc.CreateQuestion(ctx, creator, req)
	if err != nil {
		t.Fatalf("creator: %v", err)
	}
	if q.CreatorID != creator.ID || q.CreatorName != "Creator" {
		t.Errorf("creator identity not taken from principal: %+v", q)
	}
	if q.Difficulty != models.DifficultyMedium {
		t.Errorf("default difficulty = %s, want Medium", q.Difficulty)
	}

	bad := req
	bad.Difficulty = "Impossible"
	if _, err := f.svc.CreateQuestion(ctx, creator, bad); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("bad difficulty: expected ErrInvalidInput, got %v", err)
	}
}

func TestDeleteQuestion_Ownership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "Owner", "owner@example.com", models.UserCreator)
	other := f.register(t, "Other", "other@example.com", models.UserCreator)
	admin := f.register(t, "Admin", "admin@example.com", models.UserAdmin)
	client := f.register(t, "Client", "client@example.com", models.UserClient)

	q := f.addQuestion(t, owner, "Go", models.DifficultyEasy)

	for name, actor := range map[string]*models.Principal{"other creator": other, "admin": admin, "client": client} {
		if err := f.svc.DeleteQuestion(ctx, actor, q.ID); !errors.Is(err, auth.ErrForbidden) {
			t.Errorf("%s: expected ErrForbidden, got %v", name, err)
		}
	}

	if err := f.svc.DeleteQuestion(ctx, owner, q.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if _, err := f.svc.GetQuestion(ctx, q.ID); !errors.Is(err, ErrQuestionNotFound) {
		t.Errorf("after delete: expected ErrQuestionNotFound, got %v", err)
	}
	if err := f.svc.DeleteQuestion(ctx, owner, q.ID); !errors.Is(err, ErrQuestionNotFound) {
		t.Errorf("second delete: expected ErrQuestionNotFound, got %v", err)
	}
}

func TestLike(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	creator := f.register(t, "Creator", "creator@example.com", models.UserCreator)
	u1 := f.register(t, "One", "one@example.com", models.UserClient)
	u2 := f.register(t, "Two", "two@example.com", models.UserClient)
	q := f.addQuestion(t, creator, "Go", models.DifficultyEasy)

	got, err := f.svc.Like(ctx, u1, q.ID, models.LikeIncrement)
	if err != nil {
		t.Fatalf("u1 like: %v", err)
	}
	if got.Likes != 1 {
		t.Fatalf("likes = %d, want 1", got.Likes)
	}

	if _, err := f.svc.Like(ctx, u1, q.ID, models.LikeIncrement); !errors.Is(err, ErrAlreadyLiked) {
		t.Errorf("repeat like: expected ErrAlreadyLiked, got %v", err)
	}
	stored, _ := f.svc.GetQuestion(ctx, q.ID)
	if stored.Likes != 1 {
		t.Errorf("rejected like changed the counter: %d", stored.Likes)
	}

	got, err = f.svc.Like(ctx, u2, q.ID, models.LikeIncrement)
	if err != nil {
		t.Fatalf("u2 like: %v", err)
	}
	if got.Likes != 2 || !got.LikedByPrincipal(u2.ID) {
		t.Errorf("after u2 like: likes=%d likedBy=%v", got.Likes, got.LikedBy)
	}

	got, err = f.svc.Like(ctx, u1, q.ID, models.LikeDecrement)
	if err != nil {
		t.Fatalf("u1 unlike: %v", err)
	}
	if got.Likes != 1 || got.LikedByPrincipal(u1.ID) {
		t.Errorf("after u1 unlike: likes=%d likedBy=%v", got.Likes, got.LikedBy)
	}
	if _, err := f.svc.Like(ctx, u1, q.ID, models.LikeDecrement); !errors.Is(err, ErrNotLiked) {
		t.Errorf("unlike without like: expected ErrNotLiked, got %v", err)
	}

	if _, err := f.svc.Like(ctx, u1, q.ID, "double"); !errors.Is(err, ErrInvalidAction) {
		t.Errorf("bad action: expected ErrInvalidAction, got %v", err)
	}
	if _, err := f.svc.Like(ctx, u1, "missing", models.LikeIncrement); !errors.Is(err, ErrQuestionNotFound) {
		t.Errorf("missing question: expected ErrQuestionNotFound, got %v", err)
	}
}

func TestQueryAndRandom(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	creator := f.register(t, "Creator", "creator@example.com", models.UserCreator)
	user := f.register(t, "User", "user@example.com", models.UserClient)

	js := f.addQuestion(t, creator, "JavaScript", models.DifficultyHard)
	rust := f.addQuestion(t, creator, "rust", models.DifficultyEasy)
	f.addQuestion(t, creator, "React", models.DifficultyMedium)

	got, err := f.svc.QueryQuestions(ctx, user, query.Request{Skills: []string{"js"}})
	if err != nil {
		t.Fatalf("QueryQuestions: %v", err)
	}
	if len(got) != 1 || got[0].ID != js.ID {
		t.Errorf("js filter: got %v", got)
	}

	got, _ = f.svc.QueryQuestions(ctx, user, query.Request{Skills: []string{"rust"}})
	if len(got) != 1 || got[0].ID != rust.ID {
		t.Errorf("verbatim filter: got %v", got)
	}

	got, _ = f.svc.QueryQuestions(ctx, user, query.Request{Skills: []string{}})
	if len(got) != 1 || got[0].ID != rust.ID {
		t.Errorf("empty list should select others: got %v", got)
	}

	got, _ = f.svc.QueryQuestions(ctx, user, query.Request{Sort: "asc"})
	if len(got) != 3 || got[0].Difficulty != models.DifficultyEasy || got[2].Difficulty != models.DifficultyHard {
		t.Errorf("asc sort: got %v", got)
	}

	if _, err := f.svc.MarkAttempted(ctx, user, rust.ID); err != nil {
		t.Fatalf("MarkAttempted: %v", err)
	}
	got, _ = f.svc.QueryQuestions(ctx, user, query.Request{Status: "a"})
	if len(got) != 1 || got[0].ID != rust.ID {
		t.Errorf("attempted filter: got %v", got)
	}
	got, _ = f.svc.QueryQuestions(ctx, user, query.Request{Status: "not"})
	if len(got) != 2 {
		t.Errorf("not attempted filter: got %d questions", len(got))
	}

	q, err := f.svc.RandomQuestion(ctx, user, query.Request{Difficulty: "h"})
	if err != nil {
		t.Fatalf("RandomQuestion: %v", err)
	}
	if q.ID != js.ID {
		t.Errorf("single candidate: got %s, want %s", q.ID, js.ID)
	}

	if _, err := f.svc.RandomQuestion(ctx, user, query.Request{Skills: []string{"ts"}}); !errors.Is(err, query.ErrNoCandidates) {
		t.Errorf("no candidates: expected ErrNoCandidates, got %v", err)
	}
}

func TestSearchSkillAndLevels(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	creator := f.register(t, "Creator", "creator@example.com", models.UserCreator)
	f.addQuestion(t, creator, "JavaScript", models.DifficultyHard)
	f.addQuestion(t, creator, "Node Js", models.DifficultyEasy)

	got, err := f.svc.SearchQuestions(ctx, "what is node")
	if err != nil || len(got) != 1 {
		t.Errorf("search: %v, %v", got, err)
	}
	if _, err := f.svc.SearchQuestions(ctx, "nothing like this"); !errors.Is(err, ErrQuestionNotFound) {
		t.Errorf("empty search: expected ErrQuestionNotFound, got %v", err)
	}

	got, _ = f.svc.QuestionsBySkill(ctx, []string{"js"})
	if len(got) != 1 || got[0].Skill != "Node Js" {
		t.Errorf("bySkill substring match: got %v", got)
	}
	got, _ = f.svc.QuestionsBySkill(ctx, nil)
	if len(got) != 2 {
		t.Errorf("bySkill without skills should list all, got %d", len(got))
	}

	got, err = f.svc.QuestionsByLevels(ctx, []string{"hard"})
	if err != nil || len(got) != 1 || got[0].Skill != "JavaScript" {
		t.Errorf("byLevels: %v, %v", got, err)
	}
	if _, err := f.svc.QuestionsByLevels(ctx, []string{"Medium"}); !errors.Is(err, ErrQuestionNotFound) {
		t.Errorf("byLevels empty: expected ErrQuestionNotFound, got %v", err)
	}
	if _, err := f.svc.QuestionsByLevels(ctx, []string{"impossible", "trivial"}); !errors.Is(err, ErrQuestionNotFound) {
		t.Errorf("byLevels unknown names: expected ErrQuestionNotFound, got %v", err)
	}
	got, err = f.svc.QuestionsByLevels(ctx, []string{"easy", "bogus"})
	if err != nil || len(got) != 1 {
		t.Errorf("byLevels with one known level: %v, %v", got, err)
	}
	got, err = f.svc.QuestionsByLevels(ctx, nil)
	if err != nil || len(got) != 2 {
		t.Errorf("byLevels without levels should list all: %v, %v", got, err)
	}
}

func TestUpdateQuestion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	creator := f.register(t, "Creator", "creator@example.com", models.UserCreator)
	client := f.register(t, "Client", "client@example.com", models.UserClient)
	q := f.addQuestion(t, creator, "Go", models.DifficultyEasy)

	answer := "goroutines are cheap threads"
	if _, err := f.svc.UpdateQuestion(ctx, client, q.ID, models.UpdateQuestionRequest{Answer: &answer}); !errors.Is(err, auth.ErrForbidden) {
		t.Errorf("client update: expected ErrForbidden, got %v", err)
	}

	got, err := f.svc.UpdateQuestion(ctx, creator, q.ID, models.UpdateQuestionRequest{Answer: &answer})
	if err != nil {
		t.Fatalf("UpdateQuestion: %v", err)
	}
	if got.Answer != answer || got.Skill != "Go" {
		t.Errorf("partial update wrong: %+v", got)
	}

	if _, err := f.svc.UpdateQuestion(ctx, creator, "missing", models.UpdateQuestionRequest{}); !errors.Is(err, ErrQuestionNotFound) {
		t.Errorf("missing: expected ErrQuestionNotFound, got %v", err)
	}
}

func TestBookmarks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	creator := f.register(t, "Creator", "creator@example.com", models.UserCreator)
	user := f.register(t, "User", "user@example.com", models.UserClient)
	other := f.register(t, "Other", "other@example.com", models.UserClient)
	admin := f.register(t, "Admin", "admin@example.com", models.UserAdmin)
	q := f.addQuestion(t, creator, "Go", models.DifficultyEasy)

	p, err := f.svc.AddBookmark(ctx, user, user.ID, models.BookmarkRequest{QuestionID: q.ID})
	if err != nil {
		t.Fatalf("AddBookmark: %v", err)
	}
	if len(p.Bookmarks) != 1 || p.Bookmarks[0].Question != q.Question {
		t.Errorf("bookmark text not filled from question: %+v", p.Bookmarks)
	}

	if _, err := f.svc.AddBookmark(ctx, user, user.ID, models.BookmarkRequest{QuestionID: q.ID}); !errors.Is(err, ErrAlreadyBookmarked) {
		t.Errorf("duplicate: expected ErrAlreadyBookmarked, got %v", err)
	}
	if _, err := f.svc.AddBookmark(ctx, other, user.ID, models.BookmarkRequest{QuestionID: q.ID}); !errors.Is(err, auth.ErrForbidden) {
		t.Errorf("other user: expected ErrForbidden, got %v", err)
	}
	if _, err := f.svc.AddBookmark(ctx, user, user.ID, models.BookmarkRequest{QuestionID: "missing"}); !errors.Is(err, ErrQuestionNotFound) {
		t.Errorf("missing question: expected ErrQuestionNotFound, got %v", err)
	}

	p, err = f.svc.RemoveBookmark(ctx, admin, user.ID, q.ID)
	if err != nil {
		t.Fatalf("admin RemoveBookmark: %v", err)
	}
	if len(p.Bookmarks) != 0 {
		t.Errorf("bookmark not removed: %+v", p.Bookmarks)
	}
	if _, err := f.svc.RemoveBookmark(ctx, user, user.ID, q.ID); !errors.Is(err, ErrBookmarkNotFound) {
		t.Errorf("second remove: expected ErrBookmarkNotFound, got %v", err)
	}
}

func TestAccountLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.register(t, "User", "user@example.com", models.UserClient)
	admin := f.register(t, "Admin", "admin@example.com", models.UserAdmin)

	if _, err := f.svc.SetRole(ctx, user, user.ID, models.UserAdmin); !errors.Is(err, auth.ErrForbidden) {
		t.Errorf("self promotion: expected ErrForbidden, got %v", err)
	}
	if _, err := f.svc.SetRole(ctx, admin, user.ID, "superuser"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("bad role: expected ErrInvalidInput, got %v", err)
	}
	promoted, err := f.svc.SetRole(ctx, admin, user.ID, models.UserCreator)
	if err != nil || promoted.UserType != models.UserCreator {
		t.Fatalf("SetRole: %v, %v", promoted, err)
	}

	if err := f.svc.ChangePassword(ctx, user, models.ChangePasswordRequest{OldPassword: "wrong", NewPassword: "new"}); !errors.Is(err, ErrInvalidPassword) {
		t.Errorf("wrong old password: expected ErrInvalidPassword, got %v", err)
	}
	if err := f.svc.ChangePassword(ctx, user, models.ChangePasswordRequest{OldPassword: "password1", NewPassword: strings.Repeat("y", 100)}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("new password too long: expected ErrInvalidInput, got %v", err)
	}
	if err := f.svc.ChangePassword(ctx, user, models.ChangePasswordRequest{OldPassword: "password1", NewPassword: "password2"}); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if _, err := f.svc.Login(ctx, models.LoginRequest{Email: "user@example.com", Password: "password2"}); err != nil {
		t.Errorf("login with new password: %v", err)
	}

	token, claims, _ := f.tokens.Issue(user.ID)
	if err := f.svc.Logout(ctx, claims); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	verifier := auth.NewVerifier(f.tokens, f.revoked, auth.NewResolver(f.repo))
	if _, _, err := verifier.Verify(ctx, token); !errors.Is(err, auth.ErrInvalidCredential) {
		t.Errorf("logged out token: expected ErrInvalidCredential, got %v", err)
	}

	current, _ := f.repo.GetPrincipal(ctx, user.ID)
	if err := f.svc.DeleteAccount(ctx, admin, user.ID, models.DeleteAccountRequest{Password: "password2"}); !errors.Is(err, auth.ErrForbidden) {
		t.Errorf("admin deleting other: expected ErrForbidden, got %v", err)
	}
	if err := f.svc.DeleteAccount(ctx, current, user.ID, models.DeleteAccountRequest{Password: "nope"}); !errors.Is(err, ErrInvalidPassword) {
		t.Errorf("bad password: expected ErrInvalidPassword, got %v", err)
	}
	if err := f.svc.DeleteAccount(ctx, current, user.ID, models.DeleteAccountRequest{Password: "password2"}); err != nil {
		t.Fatalf("DeleteAccount: %v", err)
	}
	if _, err := f.svc.GetPrincipal(ctx, user.ID); !errors.Is(err, ErrPrincipalNotFound) {
		t.Errorf("after delete: expected ErrPrincipalNotFound, got %v", err)
	}
}

func TestAnswersAndComments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	creator := f.register(t, "Creator", "creator@example.com", models.UserCreator)
	author := f.register(t, "Author", "author@example.com", models.UserClient)
	other := f.register(t, "Other", "other@example.com", models.UserClient)
	q := f.addQuestion(t, creator, "Go", models.DifficultyEasy)

	a, err := f.svc.CreateAnswer(ctx, author, models.CreateAnswerRequest{QuestionID: q.ID, Answer: "green threads"})
	if err != nil {
		t.Fatalf("CreateAnswer: %v", err)
	}
	if a.UserID != author.ID || a.UserName != "Author" {
		t.Errorf("author not taken from principal: %+v", a)
	}
	if _, err := f.svc.CreateAnswer(ctx, author, models.CreateAnswerRequest{QuestionID: "missing", Answer: "x"}); !errors.Is(err, ErrQuestionNotFound) {
		t.Errorf("answer on missing question: expected ErrQuestionNotFound, got %v", err)
	}
	if _, err := f.svc.UpdateAnswer(ctx, other, a.ID, models.UpdateAnswerRequest{Answer: "hijack"}); !errors.Is(err, auth.ErrForbidden) {
		t.Errorf("non-author update: expected ErrForbidden, got %v", err)
	}
	updated, err := f.svc.UpdateAnswer(ctx, author, a.ID, models.UpdateAnswerRequest{Answer: "lightweight threads"})
	if err != nil || updated.Answer != "lightweight threads" {
		t.Fatalf("UpdateAnswer: %v, %v", updated, err)
	}

	c, err := f.svc.CreateComment(ctx, other, models.CreateCommentRequest{QuestionID: q.ID, Comment: "good one"})
	if err != nil {
		t.Fatalf("CreateComment: %v", err)
	}
	if err := f.svc.DeleteComment(ctx, author, c.ID); !errors.Is(err, auth.ErrForbidden) {
		t.Errorf("non-author delete: expected ErrForbidden, got %v", err)
	}

	answers, _ := f.svc.ListAnswers(ctx, q.ID)
	comments, _ := f.svc.ListComments(ctx, q.ID)
	if len(answers) != 1 || len(comments) != 1 {
		t.Fatalf("expected 1 answer and 1 comment, got %d and %d", len(answers), len(comments))
	}

	if err := f.svc.DeleteAnswer(ctx, author, a.ID); err != nil {
		t.Fatalf("DeleteAnswer: %v", err)
	}
	if err := f.svc.DeleteAnswer(ctx, author, a.ID); !errors.Is(err, ErrAnswerNotFound) {
		t.Errorf("second delete: expected ErrAnswerNotFound, got %v", err)
	}
	if err := f.svc.DeleteComment(ctx, other, c.ID); err != nil {
		t.Fatalf("DeleteComment: %v", err)
	}
}
