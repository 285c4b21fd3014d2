package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"shopgraph/internal/domain/entity"
	"shopgraph/internal/shared/identity"
	"shopgraph/internal/shared/ratelimiter"
	"shopgraph/internal/shared/validation"
)

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーを永続化します。メールアドレスが重複する場合はErrUserExistsを返します。
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail はメールアドレスに一致するユーザーを取得します。存在しない場合はErrUserNotFoundを返します。
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByIDWithProducts はカート行の商品を解決した状態でユーザーを取得します。
	FindByIDWithProducts(ctx context.Context, id string) (*entity.User, error)

	// UpdateRole はメールアドレスに一致するユーザーのロールを変更します。
	UpdateRole(ctx context.Context, email, role string) error
}

// TokenGenerator は署名済みトークンの生成を定義します。
type TokenGenerator interface {
	GenerateToken(claims identity.Claims) (string, error)
}

// PasswordHasher はパスワードのハッシュ化と照合を定義します。
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
	// Burn は存在しないユーザーに対しても照合と同じ時間を消費します。
	Burn(plaintext string)
}

// AuthResult は signup / login の戻り値です。
type AuthResult struct {
	Token string
	User  *entity.User
}

// AuthUsecase は認証ビジネスロジックを実装します。
type AuthUsecase struct {
	users   UserRepository
	tokens  TokenGenerator
	hasher  PasswordHasher
	limiter ratelimiter.AttemptLimiter

	throttleDelay time.Duration
}

// DefaultThrottleDelay は失敗上限に達したログイン試行に課す待機時間です。
const DefaultThrottleDelay = time.Second

// Option はAuthUsecaseの任意設定です。
type Option func(*AuthUsecase)

// WithThrottleDelay は失敗上限到達後のログイン待機時間を設定します。0以下で待機しません。
func WithThrottleDelay(d time.Duration) Option {
	return func(u *AuthUsecase) { u.throttleDelay = d }
}

// NewAuthUsecase はAuthUsecaseの新しいインスタンスを生成します。limiterがnilの場合、ログイン試行は制限しません。
func NewAuthUsecase(users UserRepository, tokens TokenGenerator, hasher PasswordHasher, limiter ratelimiter.AttemptLimiter, opts ...Option) *AuthUsecase {
	u := &AuthUsecase{
		users:         users,
		tokens:        tokens,
		hasher:        hasher,
		limiter:       limiter,
		throttleDelay: DefaultThrottleDelay,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Signup はハッシュ化されたパスワードで顧客ユーザーを登録し、トークンを発行します。
func (u *AuthUsecase) Signup(ctx context.Context, name *string, email, password string) (*AuthResult, error) {
	if err := validation.Var("email", email, "required,email"); err != nil {
		return nil, err
	}
	if err := validation.Var("password", password, "required"); err != nil {
		return nil, err
	}

	existing, err := u.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUserExists
	}

	hashed, err := u.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		ID:       uuid.NewString(),
		Name:     name,
		Email:    email,
		Password: hashed,
		Role:     entity.RoleCustomer,
		Cart:     []entity.CartLine{},
	}
	// 同時サインアップはユニーク制約で検出され、ErrUserExistsになります
	if err := u.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return u.issue(user)
}

// Login はユーザーを認証し、成功時にトークンを返します。
// タイミング攻撃を防止するため、ユーザーが存在しない場合でもbcrypt比較を実行します。
func (u *AuthUsecase) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	// 失敗が上限に達したメールアドレスは遅延させるだけで、正しいパスワードは拒否しない
	key := email
	if err := u.throttle(ctx, key); err != nil {
		return nil, err
	}

	user, err := u.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	if user == nil {
		u.hasher.Burn(password)
		u.recordFailure(ctx, key)
		return nil, ErrInvalidCredentials
	}
	if !u.hasher.Verify(password, user.Password) {
		u.recordFailure(ctx, key)
		return nil, ErrInvalidCredentials
	}

	if u.limiter != nil {
		if err := u.limiter.Reset(ctx, key); err != nil {
			slog.Warn("failed to reset login attempts", "error", err)
		}
	}

	return u.issue(user)
}

// Me は認証済みの呼び出し元のユーザーを返します。
func (u *AuthUsecase) Me(ctx context.Context, id identity.Identity) (*entity.User, error) {
	claims, err := identity.RequireAuthenticated(id)
	if err != nil {
		return nil, err
	}
	return u.users.FindByIDWithProducts(ctx, claims.UserID)
}

// SetRole はユーザーのロールを変更します。管理者昇格CLIから使用されます。
func (u *AuthUsecase) SetRole(ctx context.Context, email, role string) error {
	if role != entity.RoleAdmin && role != entity.RoleCustomer {
		return fmt.Errorf("unknown role %q", role)
	}
	return u.users.UpdateRole(ctx, email, role)
}

func (u *AuthUsecase) issue(user *entity.User) (*AuthResult, error) {
	token, err := u.tokens.GenerateToken(identity.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResult{Token: token, User: user}, nil
}

// throttle は key が失敗上限に達している場合に throttleDelay だけ待機します。
func (u *AuthUsecase) throttle(ctx context.Context, key string) error {
	if u.limiter == nil || u.throttleDelay <= 0 {
		return nil
	}
	blocked, err := u.limiter.Blocked(ctx, key)
	if err != nil {
		slog.Warn("login limiter unavailable", "error", err)
		return nil
	}
	if !blocked {
		return nil
	}

	timer := time.NewTimer(u.throttleDelay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (u *AuthUsecase) recordFailure(ctx context.Context, key string) {
	if u.limiter == nil {
		return
	}
	if err := u.limiter.RecordFailure(ctx, key); err != nil {
		slog.Warn("failed to record login attempt", "error", err)
	}
}
