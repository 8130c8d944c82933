// Package moderation masks forbidden words in display names.
package moderation

import (
	"log/slog"
	"unicode"

	"github.com/Jeyasaravanan18/synctube-backend/contract"
	"github.com/Jeyasaravanan18/synctube-backend/errors"
	goahocorasick "github.com/anknown/ahocorasick"
)

var _ contract.NameModerator = (*Moderator)(nil)

// Moderator censors nicknames before they are shown to the other member of a room.
type Moderator struct {
	machine *goahocorasick.Machine
	mask    rune
	log     *slog.Logger
}

// leet maps look-alike characters to the letter they stand for in a nickname.
var leet = map[rune]rune{
	'4': 'a', '@': 'a',
	'3': 'e', '€': 'e',
	'1': 'i', '!': 'i', '|': 'i',
	'0': 'o',
	'5': 's', '$': 's',
}

// folded is a nickname reduced to lowercase letters and digits, with the
// position in the raw nickname of every rune it kept.
type folded struct {
	runes []rune
	from  []int
}

func fold(nickname string) folded {
	raw := []rune(nickname)
	f := folded{runes: make([]rune, 0, len(raw)), from: make([]int, 0, len(raw))}
	for i, r := range raw {
		if sub, ok := leet[r]; ok {
			r = sub
		}
		if unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r) {
			continue
		}
		f.runes = append(f.runes, unicode.ToLower(r))
		f.from = append(f.from, i)
	}
	return f
}

// NewModerator indexes the folded forbidden words.
// A word that folds to nothing cannot match a nickname and is dropped.
func NewModerator(words []string, mask rune, log *slog.Logger) (*Moderator, error) {
	dictionary := make([][]rune, 0, len(words))
	for _, word := range words {
		f := fold(word)
		if len(f.runes) == 0 {
			log.Debug("Forbidden word dropped, only separators", "word", word)
			continue
		}
		dictionary = append(dictionary, f.runes)
	}
	if len(dictionary) == 0 {
		return nil, errors.ErrEmptyWords
	}

	machine := new(goahocorasick.Machine)
	if err := machine.Build(dictionary); err != nil {
		return nil, err
	}
	return &Moderator{machine: machine, mask: mask, log: log}, nil
}

// Censor masks every forbidden word found in nickname, separators included,
// and returns the masked nickname along with the words that matched.
func (m *Moderator) Censor(nickname string) (string, []string) {
	f := fold(nickname)
	if len(f.runes) == 0 {
		return nickname, nil
	}
	hits := m.machine.MultiPatternSearch(f.runes, false)
	if len(hits) == 0 {
		return nickname, nil
	}

	masked := []rune(nickname)
	matched := make([]string, 0, len(hits))
	for _, hit := range hits {
		last := hit.Pos + len(hit.Word) - 1
		if hit.Pos < 0 || last >= len(f.from) {
			continue
		}
		for i := f.from[hit.Pos]; i <= f.from[last]; i++ {
			masked[i] = m.mask
		}
		matched = append(matched, string(hit.Word))
	}
	return string(masked), matched
}
