//go:generate mockery --name PracticeService --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"context"
	"errors"
	"maps"
	"math/rand/v2"
	"sync"

	"spellbee/internal/corpus"
	"spellbee/internal/middleware"
	"spellbee/internal/model"
	"spellbee/internal/practice"
	"spellbee/internal/repository"
	"spellbee/internal/speech"

	"gorm.io/gorm"
)

const (
	MsgCorrect           = "Correct!"
	MsgRetry             = "Incorrect. Try once more!"
	MsgRevealPrefix      = "Incorrect. The correct spelling is: "
	MsgNothingToPractice = "No words to practice!"
	MsgFinished          = "Practice complete!"
	MsgQuit              = "Practice stopped. You can resume later."

	warnProgressNotSaved = "Progress could not be saved; it is kept in memory and will be retried."
	warnProgressNotRead  = "Saved progress could not be loaded; showing in-memory progress only."
	warnSessionNotSaved  = "The practice session could not be saved; it cannot be resumed later."
	warnSessionNotRead   = "The saved practice session could not be loaded."
	warnSessionNotClear  = "The finished practice session could not be cleared."
)

// PracticeService はユーザーごとの練習セッションを保持し、進捗とセッションの保存をつなぎます
type PracticeService interface {
	StartNew(ctx context.Context, userID string) (*model.PracticeStateResponse, error)
	StartWrongWords(ctx context.Context, userID string) (*model.PracticeStateResponse, error)
	Submit(ctx context.Context, userID, guess string) (*model.PracticeStateResponse, error)
	Quit(ctx context.Context, userID string) (*model.PracticeStateResponse, error)
	ResumeOffer(ctx context.Context, userID string) (*model.ResumeOfferResponse, error)
	Resume(ctx context.Context, userID string) (*model.PracticeStateResponse, error)
	State(ctx context.Context, userID string) (*model.PracticeStateResponse, error)
	Audio(ctx context.Context, userID string) (*speech.Audio, error)
	Summary(ctx context.Context, userID string) (*model.ProgressSummaryResponse, error)
	Reset(ctx context.Context, userID string) error
}

// userState は1ユーザー分の実行中セッションと未保存の進捗
type userState struct {
	mu      sync.Mutex
	session practice.Session
	pending model.ProgressMap
	removed bool
}

type practiceService struct {
	db          *gorm.DB
	words       *corpus.Corpus
	progress    ProgressService
	sessionRepo repository.SessionRepository
	synth       speech.Synthesizer
	rng         *rand.Rand
	rngMu       sync.Mutex

	mu    sync.Mutex
	users map[string]*userState
}

// NewPracticeService は rng が nil ならグローバルな乱数源でシャッフルします
func NewPracticeService(db *gorm.DB, words *corpus.Corpus, progress ProgressService, sessionRepo repository.SessionRepository, synth speech.Synthesizer, rng *rand.Rand) PracticeService {
	return &practiceService{
		db:          db,
		words:       words,
		progress:    progress,
		sessionRepo: sessionRepo,
		synth:       synth,
		rng:         rng,
		users:       make(map[string]*userState),
	}
}

// acquire はユーザーの状態をロックして返します。無ければ登録する
func (s *practiceService) acquire(userID string) *userState {
	for {
		s.mu.Lock()
		st, ok := s.users[userID]
		if !ok {
			st = &userState{pending: model.ProgressMap{}}
			s.users[userID] = st
		}
		s.mu.Unlock()

		st.mu.Lock()
		if !st.removed {
			return st
		}
		st.mu.Unlock()
	}
}

// acquireExisting は登録済みのときだけロックして返します
func (s *practiceService) acquireExisting(userID string) (*userState, bool) {
	for {
		s.mu.Lock()
		st, ok := s.users[userID]
		s.mu.Unlock()
		if !ok {
			return nil, false
		}

		st.mu.Lock()
		if !st.removed {
			return st, true
		}
		st.mu.Unlock()
	}
}

// release はロックを外します。出題中でなく未保存の進捗も無ければ登録から外す
func (s *practiceService) release(userID string, st *userState) {
	if st.session.State() != practice.AwaitingGuess && len(st.pending) == 0 {
		s.mu.Lock()
		if s.users[userID] == st {
			delete(s.users, userID)
		}
		s.mu.Unlock()
		st.removed = true
	}
	st.mu.Unlock()
}

// newSession は共有の rng を使うので呼び出しを直列化します
func (s *practiceService) newSession(startFn startFunc, progress model.ProgressMap) (practice.Session, error) {
	if s.rng == nil {
		return startFn(s.words.Words(), progress, nil)
	}
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return startFn(s.words.Words(), progress, s.rng)
}

// knownWords はコーパスに無くなった単語を除き、カーソルを詰めます
func (s *practiceService) knownWords(words []string, cursor int) ([]string, int) {
	kept := make([]string, 0, len(words))
	keptCursor := 0
	for i, w := range words {
		if !s.words.Contains(w) {
			continue
		}
		if i < cursor {
			keptCursor++
		}
		kept = append(kept, w)
	}
	return kept, keptCursor
}

func (s *practiceService) StartNew(ctx context.Context, userID string) (*model.PracticeStateResponse, error) {
	return s.start(ctx, userID, practice.StartNew)
}

func (s *practiceService) StartWrongWords(ctx context.Context, userID string) (*model.PracticeStateResponse, error) {
	return s.start(ctx, userID, practice.StartWrongWords)
}

type startFunc func(words []string, progress model.ProgressMap, rng *rand.Rand) (practice.Session, error)

func (s *practiceService) start(ctx context.Context, userID string, startFn startFunc) (*model.PracticeStateResponse, error) {
	logger := middleware.GetLogger(ctx)
	st := s.acquire(userID)
	defer s.release(userID, st)

	var warnings []string
	progress := s.loadProgress(ctx, userID, st.pending, &warnings)

	sess, err := s.newSession(startFn, progress)
	if err != nil {
		if errors.Is(err, model.ErrNothingToPractice) {
			logger.Info("Nothing to practice")
			return nil, model.NewAppError("NOTHING_TO_PRACTICE", MsgNothingToPractice, "", model.ErrNothingToPractice)
		}
		return nil, err
	}
	st.session = sess

	s.saveSession(ctx, userID, sess.Words(), sess.Cursor(), &warnings)

	logger.Info("Practice started", "total", sess.Len())
	return stateResponse(sess, "", nil, warnings), nil
}

func (s *practiceService) Submit(ctx context.Context, userID, guess string) (*model.PracticeStateResponse, error) {
	logger := middleware.GetLogger(ctx)
	st := s.acquire(userID)
	defer s.release(userID, st)

	next, outcome, err := st.session.Submit(guess)
	if err != nil {
		return nil, noActiveSessionError()
	}
	st.session = next

	var warnings []string
	var message string
	var result *model.ResolutionResponse

	switch outcome.Kind {
	case practice.OutcomeRetry:
		message = MsgRetry
	case practice.OutcomeCorrect, practice.OutcomeRevealed:
		res := outcome.Resolution
		if outcome.Kind == practice.OutcomeCorrect {
			message = MsgCorrect
		} else {
			message = MsgRevealPrefix + res.Word
		}
		result = &model.ResolutionResponse{
			Word:           res.Word,
			AttemptCount:   res.AttemptCount,
			Classification: res.Classification,
			Correct:        outcome.Kind == practice.OutcomeCorrect,
		}
		s.saveProgress(ctx, userID, st, res.Word, res.AttemptCount, &warnings)

		if next.State() == practice.Finished {
			if err := s.sessionRepo.DeleteByUser(ctx, s.db, userID); err != nil {
				logger.Warn("Failed to clear finished session", "error", err)
				warnings = append(warnings, warnSessionNotClear)
			}
			logger.Info("Practice finished", "total", next.Len())
		} else {
			s.saveSession(ctx, userID, next.Words(), next.Cursor(), &warnings)
		}
	}

	return stateResponse(next, message, result, warnings), nil
}

func (s *practiceService) Quit(ctx context.Context, userID string) (*model.PracticeStateResponse, error) {
	logger := middleware.GetLogger(ctx)
	st := s.acquire(userID)
	defer s.release(userID, st)

	idle, snapshot, ok := st.session.Quit()
	if !ok {
		return nil, noActiveSessionError()
	}
	st.session = idle

	var warnings []string
	s.saveSession(ctx, userID, snapshot.Words, snapshot.Cursor, &warnings)

	logger.Info("Practice quit", "cursor", snapshot.Cursor, "total", len(snapshot.Words))
	return stateResponse(idle, MsgQuit, nil, warnings), nil
}

func (s *practiceService) ResumeOffer(ctx context.Context, userID string) (*model.ResumeOfferResponse, error) {
	logger := middleware.GetLogger(ctx)

	record, err := s.sessionRepo.FindByUser(ctx, s.db, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return &model.ResumeOfferResponse{Available: false}, nil
		}
		logger.Warn("Failed to load saved session", "error", err)
		return &model.ResumeOfferResponse{Available: false, Warnings: []string{warnSessionNotRead}}, nil
	}

	words, err := record.WordList()
	if err != nil || record.Cursor < 0 {
		return &model.ResumeOfferResponse{Available: false}, nil
	}
	known, cursor := s.knownWords(words, record.Cursor)
	if cursor >= len(known) {
		return &model.ResumeOfferResponse{Available: false}, nil
	}

	updatedAt := record.UpdatedAt
	return &model.ResumeOfferResponse{
		Available: true,
		Position:  cursor + 1,
		Total:     len(known),
		UpdatedAt: &updatedAt,
	}, nil
}

func (s *practiceService) Resume(ctx context.Context, userID string) (*model.PracticeStateResponse, error) {
	logger := middleware.GetLogger(ctx)
	st := s.acquire(userID)
	defer s.release(userID, st)

	record, err := s.sessionRepo.FindByUser(ctx, s.db, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("NO_SAVED_SESSION", "There is no saved practice session.", "", model.ErrNotFound)
		}
		logger.Warn("Failed to load saved session", "error", err)
		return nil, persistenceError(warnSessionNotRead, err)
	}

	words, err := record.WordList()
	if err != nil {
		logger.Warn("Saved session is corrupt", "error", err)
		return nil, model.NewAppError("NO_SAVED_SESSION", "There is no saved practice session.", "", model.ErrNotFound)
	}

	known, cursor := s.knownWords(words, record.Cursor)
	sess := practice.Resume(known, cursor)
	st.session = sess

	var warnings []string
	if sess.State() == practice.Finished {
		if err := s.sessionRepo.DeleteByUser(ctx, s.db, userID); err != nil {
			logger.Warn("Failed to clear finished session", "error", err)
			warnings = append(warnings, warnSessionNotClear)
		}
		return stateResponse(sess, MsgFinished, nil, warnings), nil
	}

	if len(known) != len(words) {
		logger.Info("Dropped words no longer in the word list", "dropped", len(words)-len(known))
		s.saveSession(ctx, userID, sess.Words(), sess.Cursor(), &warnings)
	}

	logger.Info("Practice resumed", "cursor", sess.Cursor(), "total", sess.Len())
	return stateResponse(sess, "", nil, warnings), nil
}

func (s *practiceService) State(ctx context.Context, userID string) (*model.PracticeStateResponse, error) {
	st, ok := s.acquireExisting(userID)
	if !ok {
		return stateResponse(practice.Session{}, "", nil, nil), nil
	}
	defer s.release(userID, st)
	return stateResponse(st.session, "", nil, nil), nil
}

// Audio は出題中の単語を読み上げます。合成の失敗はセッションに影響しない
func (s *practiceService) Audio(ctx context.Context, userID string) (*speech.Audio, error) {
	logger := middleware.GetLogger(ctx)
	st, ok := s.acquireExisting(userID)
	if !ok {
		return nil, noActiveSessionError()
	}
	word, ok := st.session.Current()
	s.release(userID, st)
	if !ok {
		return nil, noActiveSessionError()
	}

	audio, err := s.synth.Synthesize(ctx, word)
	if err != nil {
		logger.Warn("Speech synthesis failed", "error", err)
		return nil, model.NewAppError("SYNTHESIS_FAILED", "Audio is unavailable right now. Please try again.", "", errors.Join(model.ErrSynthesisFailed, err))
	}
	return audio, nil
}

func (s *practiceService) Summary(ctx context.Context, userID string) (*model.ProgressSummaryResponse, error) {
	var pending model.ProgressMap
	if st, ok := s.acquireExisting(userID); ok {
		defer s.release(userID, st)
		pending = st.pending
	}

	var warnings []string
	progress := s.loadProgress(ctx, userID, pending, &warnings)
	summary := BuildSummary(s.words.Words(), progress)
	summary.Warnings = warnings
	return summary, nil
}

// Reset は保存済みの進捗とセッション、メモリ上の状態を消します
func (s *practiceService) Reset(ctx context.Context, userID string) error {
	st, ok := s.acquireExisting(userID)
	if ok {
		defer s.release(userID, st)
	}

	if err := s.progress.Reset(ctx, userID); err != nil {
		return err
	}
	if ok {
		st.session = practice.Session{}
		st.pending = model.ProgressMap{}
	}
	return nil
}

// loadProgress は保存済みの進捗に未保存分を重ねて返します。読み込みに失敗したら未保存分だけ
func (s *practiceService) loadProgress(ctx context.Context, userID string, pending model.ProgressMap, warnings *[]string) model.ProgressMap {
	logger := middleware.GetLogger(ctx)

	progress, err := s.progress.Load(ctx, userID)
	if err != nil {
		logger.Warn("Failed to load progress, continuing in memory", "error", err)
		*warnings = append(*warnings, warnProgressNotRead)
		progress = model.ProgressMap{}
	}
	maps.Copy(progress, pending)
	return progress
}

// saveProgress は未保存分とまとめて保存を試みます。失敗したら未保存分に残す
func (s *practiceService) saveProgress(ctx context.Context, userID string, st *userState, word string, attempts int, warnings *[]string) {
	logger := middleware.GetLogger(ctx)

	st.pending[word] = attempts
	batch := maps.Clone(st.pending)
	if err := s.progress.Save(ctx, userID, batch); err != nil {
		logger.Warn("Failed to save progress, keeping it in memory", "error", err, "pending", len(st.pending))
		*warnings = append(*warnings, warnProgressNotSaved)
		return
	}
	st.pending = model.ProgressMap{}
}

func (s *practiceService) saveSession(ctx context.Context, userID string, words []string, cursor int, warnings *[]string) {
	logger := middleware.GetLogger(ctx)

	record, err := model.NewSessionRecord(userID, words, cursor)
	if err == nil {
		err = s.sessionRepo.Save(ctx, s.db, record)
	}
	if err != nil {
		logger.Warn("Failed to save session", "error", err)
		*warnings = append(*warnings, warnSessionNotSaved)
	}
}

func stateResponse(sess practice.Session, message string, result *model.ResolutionResponse, warnings []string) *model.PracticeStateResponse {
	resp := &model.PracticeStateResponse{
		State:    sess.State().String(),
		Total:    sess.Len(),
		Attempts: sess.Attempts(),
		Message:  message,
		Result:   result,
		Warnings: warnings,
	}
	switch sess.State() {
	case practice.AwaitingGuess:
		resp.Position = sess.Cursor() + 1
	case practice.Finished:
		resp.Position = sess.Len()
		switch {
		case message == "":
			resp.Message = MsgFinished
		case result != nil:
			resp.Message = message + " " + MsgFinished
		}
	}
	return resp
}

func noActiveSessionError() error {
	return model.NewAppError("NO_ACTIVE_SESSION", "There is no word waiting for an answer.", "", model.ErrNoActiveSession)
}
