// Package prompt assembles the ordered content list sent to the model:
// document blocks in store order followed by one trailing text block. The
// text block is plain string concatenation; user input is not escaped and
// the JSON shapes described in instructions are never validated.
package prompt

import (
	"fmt"

	"studybuddy/internal/ai"
)

// Explanation levels. Any other value selects no clause.
const (
	LevelChild     = "child"
	LevelExam      = "exam"
	LevelProfessor = "professor"
)

const askDocumentsPreamble = "You are allowed to use ONLY the uploaded documents as source. " +
	"Answer concisely. Include JSON 'citations' array where each item has fields: page, excerpt. " +
	"If answer is not found inside uploaded documents, say so clearly. "

const summarizeInstruction = "Summarize the uploaded materials into key points, formulas, and a short study checklist. " +
	"Output JSON: {summary: '...', key_points: [...], formulas: [...]}"

const voiceInstruction = "Transcribe and answer any question included, or summarize."

func levelClause(level string) string {
	switch level {
	case LevelChild:
		return "Explain like I'm 10. "
	case LevelExam:
		return "Explain concisely, exam-focused. "
	case LevelProfessor:
		return "Give an in-depth technical explanation. "
	default:
		return ""
	}
}

// AskDocuments builds the content list for a document-grounded question.
// A room with zero documents yields a single text block.
func AskDocuments(docs []ai.Block, question, level string) []ai.Block {
	text := askDocumentsPreamble + levelClause(level) + "\nQuestion: " + question
	return withTrailingText(docs, text)
}

// AskText builds the content list for a plain text question.
func AskText(question, level string) []ai.Block {
	return []ai.Block{ai.TextBlock(levelClause(level) + question)}
}

// AskImage pairs one image block with the question.
func AskImage(image ai.Block, question string) []ai.Block {
	return []ai.Block{image, ai.TextBlock("Analyze the image and then answer: " + question)}
}

// AskVoice pairs one audio block with the fixed transcription instruction.
func AskVoice(audio ai.Block) []ai.Block {
	return []ai.Block{audio, ai.TextBlock(voiceInstruction)}
}

// Flashcards builds the flashcard generation request. Num passes through
// unvalidated: zero still produces a request asking for up to 0 cards.
func Flashcards(docs []ai.Block, num int) []ai.Block {
	text := fmt.Sprintf(
		"From the uploaded documents generate up to %d flashcards as JSON format: "+
			`{"cards":[{"q":"...","a":"...","page":n}]} `+
			"Use page citations when possible.", num)
	return withTrailingText(docs, text)
}

// Summarize builds the fixed summary request.
func Summarize(docs []ai.Block) []ai.Block {
	return withTrailingText(docs, summarizeInstruction)
}

// Quiz builds the quiz generation request.
func Quiz(docs []ai.Block, difficulty string, num int) []ai.Block {
	text := fmt.Sprintf(
		"From uploaded documents, generate %d quiz questions of %s difficulty "+
			"with answers and hints as JSON: "+
			`{"quiz":[{"q":"...","choices":["..."],"ans":"...","hint":"..."}]}`,
		num, difficulty)
	return withTrailingText(docs, text)
}

func withTrailingText(docs []ai.Block, text string) []ai.Block {
	blocks := make([]ai.Block, 0, len(docs)+1)
	blocks = append(blocks, docs...)
	blocks = append(blocks, ai.TextBlock(text))
	return blocks
}
