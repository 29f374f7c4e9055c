package relay

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hugohenrick/pitchdeck/internal/adapter/repository"
	"github.com/hugohenrick/pitchdeck/internal/domain/chat"
	"github.com/hugohenrick/pitchdeck/internal/infrastructure/database"
	"github.com/hugohenrick/pitchdeck/pkg/logger"
	"github.com/hugohenrick/pitchdeck/pkg/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errUpstream = errors.New("upstream reset")

// scriptedStream devolve os fragmentos na ordem e termina com err;
// com block=true espera o contexto ser cancelado após o último fragmento
type scriptedStream struct {
	ctx       context.Context
	fragments []string
	err       error
	block     bool
	i         int
	current   string
	closed    bool
}

func (s *scriptedStream) Next() bool {
	if s.i < len(s.fragments) {
		s.current = s.fragments[s.i]
		s.i++
		return true
	}
	if s.block {
		<-s.ctx.Done()
		s.err = s.ctx.Err()
	}
	return false
}

func (s *scriptedStream) Fragment() string { return s.current }
func (s *scriptedStream) Err() error       { return s.err }
func (s *scriptedStream) Close() error     { s.closed = true; return nil }

type fakeProvider struct {
	fragments []string
	err       error
	openErr   error
	block     bool

	mu       sync.Mutex
	requests []provider.Request
	streams  []*scriptedStream
}

func (p *fakeProvider) Stream(ctx context.Context, req provider.Request) (provider.Stream, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.requests = append(p.requests, req)
	if p.openErr != nil {
		return nil, p.openErr
	}
	s := &scriptedStream{ctx: ctx, fragments: p.fragments, err: p.err, block: p.block}
	p.streams = append(p.streams, s)
	return s, nil
}

// recorder guarda os frames; failAfter > 0 faz a escrita falhar a partir do frame de número failAfter
type recorder struct {
	frames    []Frame
	failAfter int
	onWrite   func(Frame)
}

func (r *recorder) WriteFrame(f Frame) error {
	if r.failAfter > 0 && len(r.frames)+1 >= r.failAfter {
		return errors.New("broken pipe")
	}
	r.frames = append(r.frames, f)
	if r.onWrite != nil {
		r.onWrite(f)
	}
	return nil
}

func (r *recorder) content() string {
	var sb strings.Builder
	for _, f := range r.frames {
		sb.WriteString(f.Content)
	}
	return sb.String()
}

func (r *recorder) terminals() []Frame {
	var out []Frame
	for _, f := range r.frames {
		if f.IsTerminal() {
			out = append(out, f)
		}
	}
	return out
}

// failingRepo falha ao salvar mensagens do assistente
type failingRepo struct {
	chat.Repository
}

func (r failingRepo) AppendMessage(ctx context.Context, m *chat.Message) error {
	if m.Role == chat.RoleAssistant {
		return chat.NewStorageError("salvar mensagem", errors.New("disk full"))
	}
	return r.Repository.AppendMessage(ctx, m)
}

func setup(t *testing.T) (chat.Repository, *chat.Conversation) {
	t.Helper()
	db, err := database.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "relay.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := repository.NewSQLiteChatRepository(db)
	conv := chat.NewConversation("Demo")
	require.NoError(t, repo.CreateConversation(context.Background(), conv))
	return repo, conv
}

func messages(t *testing.T, repo chat.Repository, id string) []*chat.Message {
	t.Helper()
	conv, err := repo.FindConversationWithMessages(context.Background(), id)
	require.NoError(t, err)
	return conv.Messages
}

func TestRelay_SuccessPersistsAssistant(t *testing.T) {
	repo, conv := setup(t)
	p := &fakeProvider{fragments: []string{"Hel", "lo!"}}
	r := NewRelay(repo, p, logger.NewNop(), WithSystemPrompt("be brief"), WithModel("m"), WithMaxTokens(10))

	ex, err := r.Prepare(context.Background(), conv.ID, "Hi")
	require.NoError(t, err)
	assert.Equal(t, "Hi", ex.UserMessage().Content)

	w := &recorder{}
	res := ex.Stream(context.Background(), w)
	require.NoError(t, res.Err)
	assert.Equal(t, OutcomeDone, res.Outcome)
	assert.Equal(t, "Hello!", res.Content)

	assert.Equal(t, []Frame{ContentFrame("Hel"), ContentFrame("lo!"), DoneFrame()}, w.frames)

	stored := messages(t, repo, conv.ID)
	require.Len(t, stored, 2)
	assert.Equal(t, chat.RoleUser, stored[0].Role)
	assert.Equal(t, "Hi", stored[0].Content)
	assert.Equal(t, chat.RoleAssistant, stored[1].Role)
	assert.Equal(t, w.content(), stored[1].Content)
	assert.Equal(t, res.Message.ID, stored[1].ID)

	require.Len(t, p.requests, 1)
	assert.Equal(t, provider.Request{
		System:    "be brief",
		Turns:     []provider.Turn{{Role: provider.RoleUser, Content: "Hi"}},
		Model:     "m",
		MaxTokens: 10,
	}, p.requests[0])
	assert.True(t, p.streams[0].closed)
}

func TestRelay_ProviderErrorDiscardsPartial(t *testing.T) {
	repo, conv := setup(t)
	r := NewRelay(repo, &fakeProvider{fragments: []string{"Sor"}, err: errUpstream}, logger.NewNop())

	ex, err := r.Prepare(context.Background(), conv.ID, "Hi")
	require.NoError(t, err)

	w := &recorder{}
	res := ex.Stream(context.Background(), w)
	assert.Equal(t, OutcomeProviderError, res.Outcome)
	require.ErrorIs(t, res.Err, errUpstream)
	assert.Equal(t, "Sor", res.Content)

	assert.Equal(t, []Frame{ContentFrame("Sor"), ErrorFrame(MsgGenerationFailed)}, w.frames)

	stored := messages(t, repo, conv.ID)
	require.Len(t, stored, 1)
	assert.Equal(t, chat.RoleUser, stored[0].Role)
	assert.Equal(t, "Hi", stored[0].Content)
}

func TestRelay_OpenErrorEmitsSingleErrorFrame(t *testing.T) {
	repo, conv := setup(t)
	r := NewRelay(repo, &fakeProvider{openErr: errUpstream}, logger.NewNop())

	ex, err := r.Prepare(context.Background(), conv.ID, "Hi")
	require.NoError(t, err)

	w := &recorder{}
	res := ex.Stream(context.Background(), w)
	assert.Equal(t, OutcomeProviderError, res.Outcome)
	assert.Equal(t, []Frame{ErrorFrame(MsgGenerationFailed)}, w.frames)
	assert.Len(t, messages(t, repo, conv.ID), 1)
}

func TestRelay_StorageFailureAtFinalize(t *testing.T) {
	repo, conv := setup(t)
	r := NewRelay(failingRepo{repo}, &fakeProvider{fragments: []string{"Hel", "lo!"}}, logger.NewNop())

	ex, err := r.Prepare(context.Background(), conv.ID, "Hi")
	require.NoError(t, err)

	w := &recorder{}
	res := ex.Stream(context.Background(), w)
	assert.Equal(t, OutcomeStorageError, res.Outcome)
	assert.True(t, chat.IsStorageError(res.Err))

	// O cliente já viu o texto inteiro, mas o frame terminal informa a falha
	assert.Equal(t, "Hello!", w.content())
	assert.Equal(t, []Frame{ErrorFrame(MsgPersistFailed)}, w.terminals())
	assert.Len(t, messages(t, repo, conv.ID), 1)
}

func TestRelay_ClientGoneStopsForwarding(t *testing.T) {
	repo, conv := setup(t)
	r := NewRelay(repo, &fakeProvider{fragments: []string{"a", "b", "c"}}, logger.NewNop())

	ex, err := r.Prepare(context.Background(), conv.ID, "Hi")
	require.NoError(t, err)

	w := &recorder{failAfter: 2}
	res := ex.Stream(context.Background(), w)
	assert.Equal(t, OutcomeClientGone, res.Outcome)
	assert.Equal(t, []Frame{ContentFrame("a")}, w.frames)
	assert.Len(t, messages(t, repo, conv.ID), 1)
}

func TestRelay_CancelMidStreamLosesTurn(t *testing.T) {
	repo, conv := setup(t)
	r := NewRelay(repo, &fakeProvider{fragments: []string{"Hel"}, block: true}, logger.NewNop())

	ex, err := r.Prepare(context.Background(), conv.ID, "Hi")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w := &recorder{onWrite: func(Frame) { cancel() }}

	res := ex.Stream(ctx, w)
	assert.Equal(t, OutcomeClientGone, res.Outcome)
	assert.Equal(t, "Hel", res.Content)
	assert.Empty(t, w.terminals())

	// O turno do usuário permanece; nenhuma resposta parcial é salva
	stored := messages(t, repo, conv.ID)
	require.Len(t, stored, 1)
	assert.Equal(t, chat.RoleUser, stored[0].Role)
}

func TestRelay_Timeout(t *testing.T) {
	repo, conv := setup(t)
	r := NewRelay(repo, &fakeProvider{block: true}, logger.NewNop(), WithStreamTimeout(20*time.Millisecond))

	ex, err := r.Prepare(context.Background(), conv.ID, "Hi")
	require.NoError(t, err)

	w := &recorder{}
	res := ex.Stream(context.Background(), w)
	assert.Equal(t, OutcomeProviderError, res.Outcome)
	assert.Equal(t, []Frame{ErrorFrame(MsgTimeout)}, w.frames)
	assert.Len(t, messages(t, repo, conv.ID), 1)
}

func TestRelay_PrepareRejects(t *testing.T) {
	repo, conv := setup(t)
	p := &fakeProvider{}
	r := NewRelay(repo, p, logger.NewNop())

	_, err := r.Prepare(context.Background(), conv.ID, "  \n")
	require.ErrorIs(t, err, chat.ErrEmptyContent)

	_, err = r.Prepare(context.Background(), "missing", "Hi")
	require.ErrorIs(t, err, chat.ErrConversationNotFound)

	assert.Empty(t, messages(t, repo, conv.ID))
	assert.Empty(t, p.requests)
}

func TestRelay_ContextFollowsHistory(t *testing.T) {
	repo, conv := setup(t)
	p := &fakeProvider{fragments: []string{"ok"}}
	r := NewRelay(repo, p, logger.NewNop())

	for _, content := range []string{"first", "second"} {
		ex, err := r.Prepare(context.Background(), conv.ID, content)
		require.NoError(t, err)
		require.Equal(t, OutcomeDone, ex.Stream(context.Background(), &recorder{}).Outcome)
	}

	require.Len(t, p.requests, 2)
	assert.Equal(t, []provider.Turn{
		{Role: provider.RoleUser, Content: "first"},
		{Role: provider.RoleAssistant, Content: "ok"},
		{Role: provider.RoleUser, Content: "second"},
	}, p.requests[1].Turns)
}

func TestBuildTurns_SkipsEmptyAssistant(t *testing.T) {
	msgs := []*chat.Message{
		{Role: chat.RoleUser, Content: "a"},
		{Role: chat.RoleAssistant, Content: ""},
		{Role: chat.RoleUser, Content: "b"},
	}
	assert.Equal(t, []provider.Turn{
		{Role: provider.RoleUser, Content: "a"},
		{Role: provider.RoleUser, Content: "b"},
	}, BuildTurns(msgs))
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "done", OutcomeDone.String())
	assert.Equal(t, "client_gone", OutcomeClientGone.String())
	assert.Equal(t, "unknown", Outcome(99).String())
}
