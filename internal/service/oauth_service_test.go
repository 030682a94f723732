package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"study_buddy_backend/internal/model"
	"study_buddy_backend/internal/util"

	"gorm.io/gorm"
)

// memoryNonceStore 以互斥锁保证 Pop 的原子性，并和 Redis 一样让条目
// 按 TTL 过期，替代测试中的 Redis
type memoryNonceStore struct {
	mu      sync.Mutex
	entries map[string]nonceEntry
}

type nonceEntry struct {
	value     string
	expiresAt time.Time
}

func newMemoryNonceStore() *memoryNonceStore {
	return &memoryNonceStore{entries: map[string]nonceEntry{}}
}

func (s *memoryNonceStore) Put(ctx context.Context, sid, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[sid] = nonceEntry{value: value, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *memoryNonceStore) Pop(ctx context.Context, sid string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[sid]
	delete(s.entries, sid)
	if !ok || time.Now().After(entry.expiresAt) {
		return "", nil
	}
	return entry.value, nil
}

// fakeProvider 回显换码结果，并像真实提供方一样校验 nonce
type fakeProvider struct {
	name        string
	issuedNonce string
	identity    Identity
	exchangeErr error
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) AuthCodeURL(state, nonce string) string {
	p.issuedNonce = nonce
	return fmt.Sprintf("https://provider.example/authorize?state=%s&nonce=%s", state, nonce)
}

func (p *fakeProvider) Exchange(ctx context.Context, code string) (string, error) {
	if p.exchangeErr != nil {
		return "", p.exchangeErr
	}
	return "raw-id-token-" + code, nil
}

func (p *fakeProvider) VerifyIdentity(ctx context.Context, rawIDToken, nonce string) (*Identity, error) {
	if nonce != p.issuedNonce {
		return nil, errors.New("nonce mismatch")
	}
	ident := p.identity
	return &ident, nil
}

type fakeUserStore struct {
	byEmail map[string]*model.User
	nextID  uint
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byEmail: map[string]*model.User{}, nextID: 1}
}

func (s *fakeUserStore) FindByEmail(email string) (*model.User, error) {
	if u, ok := s.byEmail[email]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeUserStore) Create(user *model.User) error {
	user.ID = s.nextID
	s.nextID++
	s.byEmail[user.Email] = user
	return nil
}

func (s *fakeUserStore) UpdateLastLogin(userID uint) error { return nil }

func newTestOAuthService(p *fakeProvider) (*OAuthService, *fakeUserStore) {
	users := newFakeUserStore()
	return &OAuthService{
		Providers: map[string]ProviderClient{p.name: p},
		Sessions:  newMemoryNonceStore(),
		Users:     users,
		JWTSecret: "test-secret",
		JWTExpire: 72 * time.Hour,
		NonceTTL:  10 * time.Minute,
	}, users
}

// 从授权地址里取回 state，模拟提供方把它原样带回回调
func stateFromAuthURL(t *testing.T, authURL string) string {
	t.Helper()
	i := strings.Index(authURL, "state=")
	if i < 0 {
		t.Fatalf("no state in auth URL %q", authURL)
	}
	rest := authURL[i+len("state="):]
	if j := strings.IndexByte(rest, '&'); j >= 0 {
		rest = rest[:j]
	}
	return rest
}

func TestOAuthHappyPath(t *testing.T) {
	p := &fakeProvider{
		name:     "google",
		identity: Identity{Email: "ada@example.com", Name: "Ada Lovelace", SubjectID: "g-123"},
	}
	s, users := newTestOAuthService(p)
	ctx := context.Background()

	authURL, err := s.Initiate(ctx, "google", "sid-1")
	if err != nil {
		t.Fatalf("Initiate: %v", err)
	}

	token, userID, err := s.Callback(ctx, "google", "sid-1", stateFromAuthURL(t, authURL), "code-1")
	if err != nil {
		t.Fatalf("Callback: %v", err)
	}
	if userID == 0 || token == "" {
		t.Fatalf("token=%q userID=%d", token, userID)
	}

	claims, err := util.ParseJWT(token, "test-secret")
	if err != nil {
		t.Fatalf("minted token does not verify: %v", err)
	}
	if claims.UserID != userID || claims.Email != "ada@example.com" {
		t.Errorf("claims = %+v", claims)
	}

	created, err := users.FindByEmail("ada@example.com")
	if err != nil {
		t.Fatalf("user not created: %v", err)
	}
	if created.Username != "ada" || created.GoogleID != "g-123" {
		t.Errorf("created user = %+v", created)
	}
}

func TestOAuthExistingUserIsReused(t *testing.T) {
	p := &fakeProvider{
		name:     "microsoft",
		identity: Identity{Email: "bob@example.com", Name: "Bob", SubjectID: "ms-9"},
	}
	s, users := newTestOAuthService(p)
	existing := &model.User{Username: "bob", Email: "bob@example.com"}
	users.Create(existing)
	ctx := context.Background()

	authURL, _ := s.Initiate(ctx, "microsoft", "sid-2")
	_, userID, err := s.Callback(ctx, "microsoft", "sid-2", stateFromAuthURL(t, authURL), "code-2")
	if err != nil {
		t.Fatalf("Callback: %v", err)
	}
	if userID != existing.ID {
		t.Errorf("userID = %d, want existing %d", userID, existing.ID)
	}
}

func TestOAuthCallbackWithoutNonceFailsClosed(t *testing.T) {
	p := &fakeProvider{name: "google", identity: Identity{Email: "x@example.com"}}
	s, _ := newTestOAuthService(p)

	token, _, err := s.Callback(context.Background(), "google", "sid-none", "some-state", "code")
	if !errors.Is(err, util.ErrSessionExpired) {
		t.Fatalf("err = %v, want ErrSessionExpired", err)
	}
	if token != "" {
		t.Errorf("token issued despite missing nonce")
	}
}

func TestOAuthCallbackReplayIsRejected(t *testing.T) {
	p := &fakeProvider{
		name:     "google",
		identity: Identity{Email: "carol@example.com", SubjectID: "g-7"},
	}
	s, _ := newTestOAuthService(p)
	ctx := context.Background()

	authURL, _ := s.Initiate(ctx, "google", "sid-3")
	state := stateFromAuthURL(t, authURL)

	if _, _, err := s.Callback(ctx, "google", "sid-3", state, "code-3"); err != nil {
		t.Fatalf("first callback: %v", err)
	}

	// 同一回调地址重放：nonce 已被消费，必须拒绝
	token, _, err := s.Callback(ctx, "google", "sid-3", state, "code-3")
	if !errors.Is(err, util.ErrSessionExpired) {
		t.Fatalf("replayed callback err = %v, want ErrSessionExpired", err)
	}
	if token != "" {
		t.Errorf("replay minted a token")
	}
}

func TestOAuthConcurrentCallbacksSingleUse(t *testing.T) {
	p := &fakeProvider{
		name:     "google",
		identity: Identity{Email: "frank@example.com", SubjectID: "g-5"},
	}
	s, _ := newTestOAuthService(p)
	ctx := context.Background()

	authURL, _ := s.Initiate(ctx, "google", "sid-c")
	state := stateFromAuthURL(t, authURL)

	// 同一回调地址被并发提交：nonce 单次使用，最多一次能成功
	const callers = 8
	errs := make(chan error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := s.Callback(ctx, "google", "sid-c", state, "code-c")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	successes := 0
	for err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, util.ErrSessionExpired):
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if successes != 1 {
		t.Errorf("successes = %d, want exactly 1", successes)
	}
}

func TestOAuthExpiredNonceBehavesLikeMissing(t *testing.T) {
	p := &fakeProvider{name: "google", identity: Identity{Email: "gail@example.com"}}
	s, _ := newTestOAuthService(p)
	s.NonceTTL = 10 * time.Millisecond
	ctx := context.Background()

	authURL, _ := s.Initiate(ctx, "google", "sid-t")
	state := stateFromAuthURL(t, authURL)

	time.Sleep(30 * time.Millisecond)

	token, _, err := s.Callback(ctx, "google", "sid-t", state, "code-t")
	if !errors.Is(err, util.ErrSessionExpired) {
		t.Fatalf("err = %v, want ErrSessionExpired", err)
	}
	if token != "" {
		t.Errorf("token issued from expired handshake")
	}
}

func TestOAuthStateMismatchFailsClosed(t *testing.T) {
	p := &fakeProvider{name: "google", identity: Identity{Email: "dave@example.com"}}
	s, _ := newTestOAuthService(p)
	ctx := context.Background()

	if _, err := s.Initiate(ctx, "google", "sid-4"); err != nil {
		t.Fatalf("Initiate: %v", err)
	}

	_, _, err := s.Callback(ctx, "google", "sid-4", "forged-state", "code-4")
	if !errors.Is(err, util.ErrAuthFailed) {
		t.Fatalf("err = %v, want ErrAuthFailed", err)
	}
}

func TestOAuthNonceMismatchRejected(t *testing.T) {
	p := &fakeProvider{name: "google", identity: Identity{Email: "eve@example.com"}}
	s, _ := newTestOAuthService(p)
	ctx := context.Background()

	authURL, _ := s.Initiate(ctx, "google", "sid-5")
	state := stateFromAuthURL(t, authURL)

	// 会话里被塞入指向其他 nonce 的状态，即便令牌本身有效也要拒绝
	s.Sessions.Put(ctx, "sid-5", state+"|different-nonce", time.Minute)

	_, _, err := s.Callback(ctx, "google", "sid-5", state, "code-5")
	if !errors.Is(err, util.ErrAuthFailed) {
		t.Fatalf("err = %v, want ErrAuthFailed", err)
	}
}

func TestOAuthMissingEmailFailsClosed(t *testing.T) {
	p := &fakeProvider{name: "google", identity: Identity{Name: "No Mail", SubjectID: "g-0"}}
	s, users := newTestOAuthService(p)
	ctx := context.Background()

	authURL, _ := s.Initiate(ctx, "google", "sid-6")
	_, _, err := s.Callback(ctx, "google", "sid-6", stateFromAuthURL(t, authURL), "code-6")
	if !errors.Is(err, util.ErrEmailMissing) {
		t.Fatalf("err = %v, want ErrEmailMissing", err)
	}
	if len(users.byEmail) != 0 {
		t.Errorf("user created without email")
	}
}

func TestOAuthExchangeFailureIsGeneric(t *testing.T) {
	p := &fakeProvider{name: "google", exchangeErr: errors.New("provider internals: code invalid")}
	s, _ := newTestOAuthService(p)
	ctx := context.Background()

	authURL, _ := s.Initiate(ctx, "google", "sid-7")
	_, _, err := s.Callback(ctx, "google", "sid-7", stateFromAuthURL(t, authURL), "bad-code")
	if !errors.Is(err, util.ErrAuthFailed) {
		t.Fatalf("err = %v, want ErrAuthFailed", err)
	}
	if strings.Contains(err.Error(), "provider internals") {
		t.Errorf("provider error leaked to caller: %v", err)
	}
}

func TestOAuthUnknownProvider(t *testing.T) {
	p := &fakeProvider{name: "google"}
	s, _ := newTestOAuthService(p)

	if _, err := s.Initiate(context.Background(), "github", "sid-8"); !errors.Is(err, ErrUnknownProvider) {
		t.Fatalf("err = %v, want ErrUnknownProvider", err)
	}
}
