package query

import (
	"strings"

	"github.com/terra-clan/quiz-engine/internal/models"
)

// Sort tokens
const (
	SortPopularity     = "po"
	SortDifficultyAsc  = "asc"
	SortDifficultyDesc = "desc"
)

// Status tokens
const (
	StatusAttempted    = "a"
	StatusNotAttempted = "not"
)

var difficultyTokens = map[string]models.Difficulty{
	"e": models.DifficultyEasy,
	"m": models.DifficultyMedium,
	"h": models.DifficultyHard,
}

// Request holds the raw filter tokens of a list or random request.
// A nil Skills means no skill filter was supplied; a non-nil empty slice means
// one was supplied without usable tokens.
type Request struct {
	Sort       string
	Status     string
	Difficulty string
	Skills     []string
}

// Builder turns filter requests into question filters
type Builder struct {
	aliases *AliasTable
}

// NewBuilder creates a builder over the given alias table
func NewBuilder(aliases *AliasTable) *Builder {
	if aliases == nil {
		aliases = MustDefaultAliasTable()
	}
	return &Builder{aliases: aliases}
}

// Aliases returns the builder's alias table
func (b *Builder) Aliases() *AliasTable {
	return b.aliases
}

// Build normalizes req for the requesting principal. Unknown tokens impose no
// constraint.
func (b *Builder) Build(req Request, principalID string) models.QuestionFilter {
	var f models.QuestionFilter

	switch strings.ToLower(strings.TrimSpace(req.Status)) {
	case StatusAttempted:
		f.AttemptedBy = principalID
	case StatusNotAttempted:
		f.NotAttemptedBy = principalID
	}

	if d, ok := difficultyTokens[strings.ToLower(strings.TrimSpace(req.Difficulty))]; ok {
		f.Difficulties = []models.Difficulty{d}
	}

	if req.Skills != nil {
		b.applySkills(&f, req.Skills)
	}

	switch strings.ToLower(strings.TrimSpace(req.Sort)) {
	case SortPopularity:
		f.Order = models.OrderPopularity
	case SortDifficultyAsc:
		f.Order = models.OrderDifficultyAsc
	case SortDifficultyDesc:
		f.Order = models.OrderDifficultyDesc
	}

	return f
}

// applySkills resolves skill tokens. A single unknown token passes through
// verbatim; a list of several tokens none of which is an alias or "others"
// selects nothing usable and falls back to the others predicate, as does a
// list of blank tokens.
func (b *Builder) applySkills(f *models.QuestionFilter, tokens []string) {
	seen := make(map[string]bool)
	supplied, recognized := 0, false
	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		supplied++
		if strings.EqualFold(token, OthersToken) {
			f.IncludeOthers = true
			continue
		}
		skill, ok := b.aliases.Lookup(token)
		if ok {
			recognized = true
		} else {
			skill = token
		}
		if !seen[skill] {
			seen[skill] = true
			f.Skills = append(f.Skills, skill)
		}
	}

	if !f.IncludeOthers && (len(f.Skills) == 0 || (supplied > 1 && !recognized)) {
		f.Skills = nil
		f.IncludeOthers = true
	}
	if f.IncludeOthers {
		f.KnownSkills = b.aliases.Canonical()
	}
}

// SplitList flattens repeated and comma-separated query values into one list.
// It returns nil when values is nil.
func SplitList(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
