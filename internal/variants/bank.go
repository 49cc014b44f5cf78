package variants

import (
	"bufio"
	"context"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"
)

// bankVariants is how many alternatives a bank request draws.
const bankVariants = 5

// BankProvider is the offline backend: it draws pseudo-variants from a
// local word bank instead of calling a suggestion model. Useful without a
// network and as the deterministic backend in tests.
type BankProvider struct {
	words []string
	rnd   *rand.Rand
}

// NewBank returns a bank provider seeded with the current time.
func NewBank(words []string) *BankProvider {
	return NewBankSeeded(words, time.Now().UnixNano())
}

// NewBankSeeded returns a bank provider with a fixed seed.
func NewBankSeeded(words []string, seed int64) *BankProvider {
	return &BankProvider{words: words, rnd: rand.New(rand.NewSource(seed))}
}

// Variations implements Provider. Prediction requests draw fresh words; all
// other requests draw alternatives distinct from the requested word.
func (p *BankProvider) Variations(_ context.Context, req Request) ([]string, error) {
	if len(p.words) == 0 {
		return nil, fmt.Errorf("word bank is empty")
	}
	exclude := ""
	if req.Word != PredictWord {
		exclude = req.Word
	}
	seen := map[string]struct{}{}
	result := make([]string, 0, bankVariants)
	// Bounded draw attempts so a tiny bank cannot loop forever.
	for attempts := 0; len(result) < bankVariants && attempts < len(p.words)*4; attempts++ {
		word := p.words[p.rnd.Intn(len(p.words))]
		if word == exclude {
			continue
		}
		if _, ok := seen[word]; ok {
			continue
		}
		seen[word] = struct{}{}
		result = append(result, word)
	}
	return result, nil
}

// LoadBank reads one word per line from the provided file path, keeping
// lowercase ASCII words only.
func LoadBank(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word bank.
			_ = cerr
		}
	}()

	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || !isBankWord(line) {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("word bank is empty")
	}
	return words, nil
}

func isBankWord(word string) bool {
	for i := 0; i < len(word); i++ {
		ch := word[i]
		if ch < 'a' || ch > 'z' {
			return false
		}
	}
	return true
}

// DefaultBank is the built-in word bank used when no bank file exists.
var DefaultBank = []string{
	"the", "a", "an", "we", "you", "they", "she", "he", "it", "i",
	"time", "day", "night", "world", "word", "dream", "light", "dark",
	"small", "great", "quiet", "loud", "slow", "fast", "old", "new",
	"walk", "run", "turn", "spin", "move", "stay", "begin", "end",
	"make", "take", "find", "lose", "keep", "give", "hold", "let",
	"always", "never", "maybe", "still", "again", "once", "soon", "now",
	"here", "there", "home", "away", "near", "far", "above", "below",
}
