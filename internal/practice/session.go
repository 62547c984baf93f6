// Package practice は練習セッションの状態遷移を扱います。
// Session は値オブジェクトで、各コマンドは新しい Session を返します。I/O は行いません。
package practice

import (
	"math/rand/v2"

	"spellbee/internal/corpus"
	"spellbee/internal/model"
)

// MaxAttempts は1単語あたりの回答回数 (再挑戦は1回まで)。設定では変えられない
const MaxAttempts = 2

type State int

const (
	Idle State = iota
	AwaitingGuess
	Finished
)

func (s State) String() string {
	switch s {
	case AwaitingGuess:
		return "awaiting_guess"
	case Finished:
		return "finished"
	default:
		return "idle"
	}
}

// OutcomeKind は回答1回分の結果
type OutcomeKind int

const (
	OutcomeCorrect  OutcomeKind = iota + 1 // 正解して次へ
	OutcomeRetry                           // 1回目の不正解、同じ単語をもう一度
	OutcomeRevealed                        // 2回目の不正解、正解を表示して次へ
)

// Resolution は単語の確定結果。これが返ったときだけ進捗を保存する
type Resolution struct {
	Word           string
	AttemptCount   int
	Classification model.Classification
}

type Outcome struct {
	Kind       OutcomeKind
	Resolution *Resolution // OutcomeRetry のときは nil
}

// Snapshot は中断時に保存する内容
type Snapshot struct {
	Words  []string
	Cursor int
}

type Session struct {
	state    State
	queue    []string
	cursor   int
	attempts int
}

func (s Session) State() State  { return s.state }
func (s Session) Cursor() int   { return s.cursor }
func (s Session) Len() int      { return len(s.queue) }
func (s Session) Attempts() int { return s.attempts }

// Current は出題中の単語を返します
func (s Session) Current() (string, bool) {
	if s.state != AwaitingGuess {
		return "", false
	}
	return s.queue[s.cursor], true
}

func (s Session) Words() []string {
	out := make([]string, len(s.queue))
	copy(out, s.queue)
	return out
}

// StartNew はまだ進捗の無い単語すべてをシャッフルしてキューにします
func StartNew(words []string, progress model.ProgressMap, rng *rand.Rand) (Session, error) {
	pool := buildPool(words, func(w string) bool {
		_, done := progress[w]
		return !done
	})
	return start(pool, rng)
}

// StartWrongWords は attempt_count > 1 の単語をキューにします
func StartWrongWords(words []string, progress model.ProgressMap, rng *rand.Rand) (Session, error) {
	pool := buildPool(words, func(w string) bool {
		return progress[w] > 1
	})
	return start(pool, rng)
}

// Resume は保存済みのキューとカーソルから再開します。途中の回答回数は0に戻る
func Resume(words []string, cursor int) Session {
	queue := make([]string, len(words))
	copy(queue, words)
	if cursor < 0 {
		cursor = 0
	}
	if cursor >= len(queue) {
		return Session{state: Finished, queue: queue, cursor: len(queue)}
	}
	return Session{state: AwaitingGuess, queue: queue, cursor: cursor}
}

// Submit は回答を判定して次の状態を返します
func (s Session) Submit(text string) (Session, Outcome, error) {
	target, ok := s.Current()
	if !ok {
		return s, Outcome{}, model.ErrNoActiveSession
	}

	if corpus.Normalize(text) == target {
		res := resolve(target, s.attempts+1)
		return s.advance(), Outcome{Kind: OutcomeCorrect, Resolution: res}, nil
	}

	s.attempts++
	if s.attempts < MaxAttempts {
		return s, Outcome{Kind: OutcomeRetry}, nil
	}

	res := resolve(target, s.attempts)
	return s.advance(), Outcome{Kind: OutcomeRevealed, Resolution: res}, nil
}

// Quit は保存用のスナップショットを返して Idle に戻ります。出題中の単語の進捗は変えない
func (s Session) Quit() (Session, Snapshot, bool) {
	if s.state != AwaitingGuess {
		return Session{}, Snapshot{}, false
	}
	return Session{}, Snapshot{Words: s.Words(), Cursor: s.cursor}, true
}

func (s Session) advance() Session {
	next := Session{queue: s.queue, cursor: s.cursor + 1}
	if next.cursor >= len(next.queue) {
		next.state = Finished
		next.cursor = len(next.queue)
	} else {
		next.state = AwaitingGuess
	}
	return next
}

func resolve(word string, attempts int) *Resolution {
	return &Resolution{
		Word:           word,
		AttemptCount:   attempts,
		Classification: model.Classify(attempts),
	}
}

func start(pool []string, rng *rand.Rand) (Session, error) {
	if len(pool) == 0 {
		return Session{}, model.ErrNothingToPractice
	}
	shuffle := rand.Shuffle
	if rng != nil {
		shuffle = rng.Shuffle
	}
	shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	return Session{state: AwaitingGuess, queue: pool}, nil
}

// buildPool はコーパス順を保ったまま重複を除いて絞り込みます
func buildPool(words []string, keep func(string) bool) []string {
	seen := make(map[string]struct{}, len(words))
	pool := make([]string, 0, len(words))
	for _, w := range words {
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		if keep(w) {
			pool = append(pool, w)
		}
	}
	return pool
}
