package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Cristian-Soto/copiloto-conversacional/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads LLM prompts from user-editable files on disk.
// Prompts are loaded from a configurable directory with fallback to
// embedded defaults.
//
// The store uses lazy initialisation: files are only created when first
// accessed, not in the constructor. This makes testing easier and
// avoids unexpected I/O.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// defaultPrompts contains embedded default prompts. These are used when
// user files don't exist and as the initial content for new files.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptQA: `You are an assistant specialised in document analysis. Answer based only on the provided context.

DOCUMENT CONTEXT:
%s

INSTRUCTIONS:
- Answer only with information from the provided context
- If the context does not contain enough information, say so clearly
- Cite the specific document when relevant
- Keep a professional and concise tone

QUESTION: %s

ANSWER BASED ON THE CONTEXT:`,

	driven.PromptSummaryComprehensive: `Analyse the following document and produce a complete, structured summary:

DOCUMENT:
%s

Produce a summary that includes:

1. EXECUTIVE SUMMARY (2-3 paragraphs)
   - Purpose and context of the document
   - Main findings or arguments
   - Relevant conclusions

2. KEY POINTS
   - [5-7 most important points of the document]

3. METHODOLOGY/APPROACH (if applicable)
   - [description of the approach used]

4. MAIN DATA AND EVIDENCE
   - [relevant statistics, data, examples]

5. CONCLUSIONS AND RECOMMENDATIONS
   - [author's conclusions]
   - [recommendations or implications]

STRUCTURED SUMMARY:`,

	driven.PromptSummaryExecutive: `Produce a concise, professional executive summary of the following document:

DOCUMENT:
%s

EXECUTIVE SUMMARY:
- Problem/Situation: [brief description]
- Main Findings: [3-4 key points]
- Conclusions: [main result]
- Recommendations: [suggested actions]
- Impact: [relevance and implications]

SUMMARY:`,

	driven.PromptSummaryTechnical: `Analyse the following document from a technical perspective:

DOCUMENT:
%s

TECHNICAL ANALYSIS:
1. MAIN TECHNICAL ASPECTS
2. METHODOLOGIES AND TOOLS
3. RELEVANT DATA AND METRICS
4. LIMITATIONS AND CONSIDERATIONS
5. TECHNICAL APPLICABILITY

ANALYSIS:`,

	driven.PromptSummaryBullets: `Extract the most important points of the following document as a list:

DOCUMENT:
%s

KEY POINTS:
- [main point 1]
- [main point 2]
- [main point 3]
- [main point 4]
- [main point 5]
- [main conclusion]

BULLET SUMMARY:`,

	driven.PromptMultiDocument: `Analyse the following collection of documents and produce a consolidated summary:

CONTENT FROM MULTIPLE DOCUMENTS:
%s

Produce a consolidated summary that includes:

1. OVERALL PICTURE
   - Main themes emerging from the documents
   - Common patterns identified

2. MAIN FINDINGS
   - Recurring key points
   - Significant conclusions

3. DIVERSE PERSPECTIVES
   - Different approaches found
   - Contrasts between documents

CONSOLIDATED SUMMARY:`,

	driven.PromptComparison: `Analyse and compare the following two documents, producing a structured comparative summary:

DOCUMENT 1:
%s

DOCUMENT 2:
%s

Produce a comparative analysis that includes:

1. SUMMARY OF EACH DOCUMENT
   - Document 1: [executive summary]
   - Document 2: [executive summary]

2. MAIN SIMILARITIES
   - [themes, approaches or conclusions in common]

3. KEY DIFFERENCES
   - [aspects where they differ significantly]

4. COMPLEMENTARY ANALYSIS
   - [how the documents complement or contrast each other]

5. OVERALL SYNTHESIS
   - [conclusions of the comparative analysis]

COMPARATIVE ANALYSIS:`,

	driven.PromptClassify: `Classify the following content into exactly one of these categories: %s

CONTENT:
%s

Respond in exactly this format:
CATEGORY: [category]
CONFIDENCE: [0.0-1.0]
REASON: [brief explanation]

CLASSIFICATION:`,
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to ~/.copiloto/prompts/.
//
// The constructor does not perform any I/O; directory creation and
// file writes happen lazily on first Load() call.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		promptDir = filepath.Join(home, ".copiloto", "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt template for the given name.
// On first call, initialises the prompt directory and creates default
// files. Returns cached value if available, otherwise loads from file.
// Falls back to the embedded default if the file doesn't exist.
func (s *PromptStore) Load(name string) (string, error) {
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		if prompt, ok := defaultPrompts[name]; ok {
			return prompt, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	prompt, err := s.loadFromFile(name)
	if err != nil {
		if defaultPrompt, ok := defaultPrompts[name]; ok {
			return defaultPrompt, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	s.mu.Lock()
	if _, ok := s.cache[name]; !ok {
		s.cache[name] = prompt
	} else {
		prompt = s.cache[name]
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// initialise creates the prompt directory and default files.
// Called once via sync.Once on first Load().
func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	for name, content := range defaultPrompts {
		path := filepath.Join(s.promptDir, name+".txt")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
				return
			}
		}
	}

	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

// loadFromFile reads a prompt from disk.
func (s *PromptStore) loadFromFile(name string) (string, error) {
	path := filepath.Join(s.promptDir, name+".txt")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// createReadme writes a README file explaining the prompts directory.
func (s *PromptStore) createReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil // Already exists or stat error (ignore)
	}

	content := `# Copiloto Prompts

This directory contains customisable prompts used by copiloto's LLM features.

## Files

- ` + "`qa.txt`" + ` - Answers questions from document context
- ` + "`summary_comprehensive.txt`" + ` - Full structured document summary
- ` + "`summary_executive.txt`" + ` - Short executive brief
- ` + "`summary_technical.txt`" + ` - Technical-perspective analysis
- ` + "`summary_bullet_points.txt`" + ` - Key-point list summary
- ` + "`summary_multi_document.txt`" + ` - Consolidated collection summary
- ` + "`summary_comparison.txt`" + ` - Five-section comparative analysis
- ` + "`classify.txt`" + ` - Topic classification

## Customisation

Edit any file to customise LLM behaviour. Changes take effect on the
next command.

## Format Placeholders

Prompts use Go fmt placeholders:
- ` + "`%s`" + ` - String (e.g., the context, question or content)

Ensure customised prompts maintain placeholders in the correct positions.
`
	return os.WriteFile(path, []byte(content), 0600)
}
