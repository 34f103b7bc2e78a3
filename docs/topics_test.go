package docs

import (
	"bufio"
	"bytes"
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/etnz/fiscal"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

func TestTopics(t *testing.T) {
	// Every topic listed in the index can be loaded, and every topic is listed.
	index, err := GetTopic(Index)
	if err != nil {
		t.Fatal(err)
	}

	var listed []string
	topicRegex := regexp.MustCompile(`^\*\s+([^:]+):.*$`)
	scanner := bufio.NewScanner(strings.NewReader(index))
	for scanner.Scan() {
		if matches := topicRegex.FindStringSubmatch(scanner.Text()); len(matches) > 1 {
			listed = append(listed, strings.TrimSpace(matches[1]))
		}
	}

	for _, topic := range listed {
		if _, err := GetTopic(topic); err != nil {
			t.Errorf("failed to get topic %q: %v", topic, err)
		}
	}

	all, err := GetAllTopics()
	if err != nil {
		t.Fatal(err)
	}
	for _, topic := range all {
		if !slices.Contains(listed, topic) {
			t.Errorf("topic %q is not listed in %s.md", topic, Index)
		}
	}
}

func TestGetTopics(t *testing.T) {
	if _, err := GetTopic("unknown"); err == nil {
		t.Error("GetTopic(unknown) succeeded")
	}

	all, err := GetTopic("*")
	if err != nil {
		t.Fatal(err)
	}
	topics, _ := GetAllTopics()
	for _, topic := range topics {
		content, _ := GetTopic(topic)
		if !strings.Contains(all, content) {
			t.Errorf("GetTopic(*) does not contain topic %q", topic)
		}
	}
}

// codeBlock is a fenced code block of a topic.
type codeBlock struct {
	lang    string
	content []byte
}

func codeBlocks(t *testing.T, topic string) []codeBlock {
	t.Helper()
	content, err := GetTopic(topic)
	if err != nil {
		t.Fatal(err)
	}
	source := []byte(content)
	root := goldmark.DefaultParser().Parse(text.NewReader(source))

	var blocks []codeBlock
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		fcb, ok := n.(*ast.FencedCodeBlock)
		if !entering || !ok || fcb.Info == nil {
			return ast.WalkContinue, nil
		}
		var b bytes.Buffer
		for i := 0; i < fcb.Lines().Len(); i++ {
			line := fcb.Lines().At(i)
			b.Write(line.Value(source))
		}
		blocks = append(blocks, codeBlock{lang: string(fcb.Language(source)), content: b.Bytes()})
		return ast.WalkContinue, nil
	})
	return blocks
}

// TestExamples checks that the examples of the documentation are read by fsc.
func TestExamples(t *testing.T) {
	topics, err := GetAllTopics()
	if err != nil {
		t.Fatal(err)
	}
	count := 0
	for _, topic := range topics {
		for _, block := range codeBlocks(t, topic) {
			switch block.lang {
			case "jsonl":
				count++
				txs, err := fiscal.DecodeTransactions(bytes.NewReader(block.content), fiscal.DefaultCurrency)
				if err != nil {
					t.Errorf("%s: invalid ledger example: %v", topic, err)
				}
				if len(txs) == 0 {
					t.Errorf("%s: empty ledger example", topic)
				}
			case "yaml":
				count++
				cfg, err := fiscal.DecodeFiscalConfigYAML(bytes.NewReader(block.content))
				if err != nil {
					t.Errorf("%s: invalid configuration example: %v", topic, err)
					continue
				}
				if res := cfg.Validate(); !res.IsValid {
					t.Errorf("%s: configuration example is not valid: %v", topic, res.Errors)
				}
			}
		}
	}
	if count == 0 {
		t.Error("no example found")
	}
}
