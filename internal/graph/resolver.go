// Package graph は GraphQL の API サーフェス（スキーマ、リゾルバー、HTTPハンドラー）を提供します。
package graph

import (
	"context"
	"errors"

	"github.com/graphql-go/graphql"

	"shopgraph/internal/domain/entity"
	authuc "shopgraph/internal/feature/auth/usecase"
	cartuc "shopgraph/internal/feature/cart/usecase"
	cataloguc "shopgraph/internal/feature/catalog/usecase"
	"shopgraph/internal/shared/identity"
)

// AuthService は signup / login / me を提供します。
type AuthService interface {
	Signup(ctx context.Context, name *string, email, password string) (*authuc.AuthResult, error)
	Login(ctx context.Context, email, password string) (*authuc.AuthResult, error)
	Me(ctx context.Context, caller identity.Identity) (*entity.User, error)
}

// CatalogService は商品カタログの読み書きを提供します。
type CatalogService interface {
	ListProducts(ctx context.Context) ([]entity.Product, error)
	GetProduct(ctx context.Context, id string) (*entity.Product, error)
	AddProduct(ctx context.Context, caller identity.Identity, in cataloguc.NewProduct) (*entity.Product, error)
	UpdateProduct(ctx context.Context, caller identity.Identity, id string, patch entity.ProductPatch) (*entity.Product, error)
	DeleteProduct(ctx context.Context, caller identity.Identity, id string) (*entity.Product, error)
}

// CartService はカート操作を提供します。
type CartService interface {
	AddToCart(ctx context.Context, caller identity.Identity, productID string, quantity int) (*entity.User, error)
	RemoveFromCart(ctx context.Context, caller identity.Identity, productID string) (*entity.User, error)
	GetCart(ctx context.Context, caller identity.Identity) ([]entity.CartLine, error)
}

// OrderService は注文の確定と一覧を提供します。
type OrderService interface {
	PlaceOrder(ctx context.Context, caller identity.Identity) (*entity.Order, error)
	ListOrders(ctx context.Context, caller identity.Identity) ([]entity.Order, error)
}

// Resolver は各フィールドリゾルバーが呼び出すサービスを保持します。
type Resolver struct {
	Auth    AuthService
	Catalog CatalogService
	Cart    CartService
	Orders  OrderService
}

func caller(p graphql.ResolveParams) identity.Identity {
	return identity.FromContext(p.Context)
}

// nullIfNotFound は「商品が存在しない」をエラーではなく null として返します。
func nullIfNotFound(p *entity.Product, err error) (interface{}, error) {
	if errors.Is(err, cataloguc.ErrProductNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// optional は引数が与えられた場合のみポインタを返します。
// graphql-go は null が明示された引数を Args から除外するため、null と未指定は区別されません。
func optional[T any](args map[string]interface{}, name string) *T {
	v, ok := args[name].(T)
	if !ok {
		return nil
	}
	return &v
}

// --- クエリ ---

func (r *Resolver) me(p graphql.ResolveParams) (interface{}, error) {
	return r.Auth.Me(p.Context, caller(p))
}

func (r *Resolver) getProducts(p graphql.ResolveParams) (interface{}, error) {
	return r.Catalog.ListProducts(p.Context)
}

func (r *Resolver) getProduct(p graphql.ResolveParams) (interface{}, error) {
	id, _ := p.Args["id"].(string)
	return nullIfNotFound(r.Catalog.GetProduct(p.Context, id))
}

func (r *Resolver) myCart(p graphql.ResolveParams) (interface{}, error) {
	return r.Cart.GetCart(p.Context, caller(p))
}

func (r *Resolver) orders(p graphql.ResolveParams) (interface{}, error) {
	return r.Orders.ListOrders(p.Context, caller(p))
}

// --- ミューテーション ---

func (r *Resolver) signup(p graphql.ResolveParams) (interface{}, error) {
	email, _ := p.Args["email"].(string)
	password, _ := p.Args["password"].(string)
	return r.Auth.Signup(p.Context, optional[string](p.Args, "name"), email, password)
}

func (r *Resolver) login(p graphql.ResolveParams) (interface{}, error) {
	email, _ := p.Args["email"].(string)
	password, _ := p.Args["password"].(string)
	return r.Auth.Login(p.Context, email, password)
}

func (r *Resolver) addProduct(p graphql.ResolveParams) (interface{}, error) {
	in := cataloguc.NewProduct{Description: optional[string](p.Args, "description")}
	in.Name, _ = p.Args["name"].(string)
	in.Price, _ = p.Args["price"].(float64)
	in.Stock, _ = p.Args["stock"].(int)
	return r.Catalog.AddProduct(p.Context, caller(p), in)
}

func (r *Resolver) updateProduct(p graphql.ResolveParams) (interface{}, error) {
	id, _ := p.Args["id"].(string)
	patch := entity.ProductPatch{
		Name:        optional[string](p.Args, "name"),
		Description: optional[string](p.Args, "description"),
		Price:       optional[float64](p.Args, "price"),
		Stock:       optional[int](p.Args, "stock"),
	}
	return nullIfNotFound(r.Catalog.UpdateProduct(p.Context, caller(p), id, patch))
}

func (r *Resolver) deleteProduct(p graphql.ResolveParams) (interface{}, error) {
	id, _ := p.Args["id"].(string)
	return nullIfNotFound(r.Catalog.DeleteProduct(p.Context, caller(p), id))
}

func (r *Resolver) addToCart(p graphql.ResolveParams) (interface{}, error) {
	productID, _ := p.Args["productId"].(string)
	quantity, ok := p.Args["quantity"].(int)
	if !ok {
		quantity = cartuc.DefaultQuantity
	}
	return r.Cart.AddToCart(p.Context, caller(p), productID, quantity)
}

func (r *Resolver) removeFromCart(p graphql.ResolveParams) (interface{}, error) {
	productID, _ := p.Args["productId"].(string)
	return r.Cart.RemoveFromCart(p.Context, caller(p), productID)
}

func (r *Resolver) placeOrder(p graphql.ResolveParams) (interface{}, error) {
	return r.Orders.PlaceOrder(p.Context, caller(p))
}
