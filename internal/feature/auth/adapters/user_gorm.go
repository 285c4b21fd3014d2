// Package adapters はauthフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shopgraph/internal/domain/entity"
	"shopgraph/internal/feature/auth/usecase"
)

// pgUniqueViolation はPostgreSQLのユニーク制約違反のSQLSTATEです。
const pgUniqueViolation = "23505"

// UserGorm はユーザーとそのカートをGORMで永続化します。
// カートとオーダーのユースケースもこの実装を利用します。
type UserGorm struct {
	db *gorm.DB
}

// UserGormがUserRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.UserRepository = (*UserGorm)(nil)

// NewUserGorm は指定されたgorm.DB接続でUserGormの新しいインスタンスを生成します。
func NewUserGorm(db *gorm.DB) *UserGorm {
	return &UserGorm{db: db}
}

// Create はユーザーとカート行を追加します。
// 同じメールアドレスのユーザーが既に存在する場合、usecase.ErrUserExistsを返します。
func (r *UserGorm) Create(ctx context.Context, u *entity.User) error {
	if u == nil {
		return errors.New("user is nil")
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = entity.RoleCustomer
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(u).Error; err != nil {
			if isUniqueViolation(err) {
				return usecase.ErrUserExists
			}
			return err
		}
		return writeCart(tx, u)
	})
}

// FindByEmail はメールアドレスでユーザーを取得します。カート行の商品は解決しません。
func (r *UserGorm) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.first(r.withCart(ctx), "email = ?", email)
}

// FindByID はIDでユーザーを取得します。カート行の商品は解決しません。
func (r *UserGorm) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return r.first(r.withCart(ctx), "id = ?", id)
}

// FindByIDWithProducts はIDでユーザーを取得し、カート行の商品を解決します。
// 削除済み商品を参照する行の Product は nil になります。
func (r *UserGorm) FindByIDWithProducts(ctx context.Context, id string) (*entity.User, error) {
	return r.first(r.withCart(ctx).Preload("Cart.Product"), "id = ?", id)
}

// Save はユーザーレコード全体を書き込み、カートを丸ごと置き換えます。
// 読み込みから保存までロックは取らないため、同一ユーザーへの同時更新は後勝ちになります。
func (r *UserGorm) Save(ctx context.Context, u *entity.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(u).Error; err != nil {
			if isUniqueViolation(err) {
				return usecase.ErrUserExists
			}
			return err
		}
		if err := tx.Where("user_id = ?", u.ID).Delete(&entity.CartLine{}).Error; err != nil {
			return err
		}
		return writeCart(tx, u)
	})
}

// UpdateRole はメールアドレスに一致するユーザーのロールを変更します。
func (r *UserGorm) UpdateRole(ctx context.Context, email, role string) error {
	result := r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("email = ?", email).
		Update("role", role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrUserNotFound
	}
	return nil
}

func (r *UserGorm) withCart(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Cart", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	})
}

func (r *UserGorm) first(q *gorm.DB, cond string, arg any) (*entity.User, error) {
	var u entity.User
	if err := q.Where(cond, arg).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	if u.Cart == nil {
		u.Cart = []entity.CartLine{}
	}
	return &u, nil
}

// writeCart はカート行を位置順に挿入し、採番されたIDを u.Cart に書き戻します。
func writeCart(tx *gorm.DB, u *entity.User) error {
	if len(u.Cart) == 0 {
		return nil
	}
	rows := make([]entity.CartLine, len(u.Cart))
	for i, line := range u.Cart {
		rows[i] = entity.CartLine{
			UserID:    u.ID,
			Position:  i,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		}
	}
	if err := tx.Omit(clause.Associations).Create(&rows).Error; err != nil {
		return err
	}
	for i := range rows {
		u.Cart[i].ID = rows[i].ID
		u.Cart[i].UserID = rows[i].UserID
		u.Cart[i].Position = rows[i].Position
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
