package domain

import (
	"crypto/sha256"
	"encoding/hex"
)

// Question is a flashcard belonging to exactly one module, with an optional
// taxonomy of topics, subtopics, and tags used for distractor scoring.
type Question struct {
	ID        string   `json:"id"`
	ModuleID  string   `json:"moduleId"`
	Prompt    string   `json:"prompt"`
	Answer    string   `json:"answer"`
	Topics    []string `json:"topics,omitempty"`
	Subtopics []string `json:"subtopics,omitempty"`
	Tags      []string `json:"tags,omitempty"`
}

// QuestionID derives a stable, content-based identity for a question.
// Hex output keeps the ID safe to embed in attempt tokens.
func QuestionID(moduleID, prompt string) string {
	sum := sha256.Sum256([]byte(moduleID + "\x00" + prompt))
	return hex.EncodeToString(sum[:8])
}

// DuplicateMatch pairs an existing question with its similarity to a candidate.
type DuplicateMatch struct {
	QuestionID string  `json:"questionId"`
	Prompt     string  `json:"prompt"`
	Answer     string  `json:"answer"`
	Similarity float64 `json:"similarity"`
}

// DistractorCandidate is a wrong-answer choice scored against a target question.
type DistractorCandidate struct {
	QuestionID string `json:"questionId"`
	Answer     string `json:"answer"`
	Score      int    `json:"score"`
}

// Filters narrows which questions a deal may pick. Empty slices match everything.
type Filters struct {
	Topics     []string `json:"topics,omitempty"`
	Subtopics  []string `json:"subtopics,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	QuestionID string   `json:"questionId,omitempty"`
}

// DealtQuestion is the response to a deal: the prompt, the shuffled answer
// choices (correct answer included), and a signed single-use attempt token.
type DealtQuestion struct {
	QuestionID string   `json:"questionId"`
	ModuleID   string   `json:"moduleId"`
	Prompt     string   `json:"prompt"`
	Answers    []string `json:"answers"`
	Topics     []string `json:"topics,omitempty"`
	Subtopics  []string `json:"subtopics,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	Token      string   `json:"token"`
}

// GradeResult reports whether a submitted answer matched the correct one.
type GradeResult struct {
	QuestionID string `json:"questionId"`
	Correct    bool   `json:"correct"`
}
