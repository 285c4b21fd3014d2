package graph

import "github.com/graphql-go/graphql"

// 各オブジェクト型のフィールドは graphql-go のデフォルトリゾルバーで
// entity の同名フィールド（大文字小文字を区別しない）に解決されます。

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"name":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"description": &graphql.Field{Type: graphql.String},
		"price":       &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
		"stock":       &graphql.Field{Type: graphql.Int},
	},
})

// cartItemType は CartLine を表します。削除済み商品の product は null です。
var cartItemType = graphql.NewObject(graphql.ObjectConfig{
	Name: "CartItem",
	Fields: graphql.Fields{
		"product":  &graphql.Field{Type: productType},
		"quantity": &graphql.Field{Type: graphql.Int},
	},
})

var userType = graphql.NewObject(graphql.ObjectConfig{
	Name: "User",
	Fields: graphql.Fields{
		"id":    &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"name":  &graphql.Field{Type: graphql.String},
		"email": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"role":  &graphql.Field{Type: graphql.String},
		"cart":  &graphql.Field{Type: graphql.NewList(cartItemType)},
	},
})

var orderItemType = graphql.NewObject(graphql.ObjectConfig{
	Name: "OrderItem",
	Fields: graphql.Fields{
		"product":  &graphql.Field{Type: productType},
		"quantity": &graphql.Field{Type: graphql.Int},
	},
})

var orderType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Order",
	Fields: graphql.Fields{
		"id":         &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"user":       &graphql.Field{Type: userType},
		"items":      &graphql.Field{Type: graphql.NewList(orderItemType)},
		"totalPrice": &graphql.Field{Type: graphql.Float},
		"status":     &graphql.Field{Type: graphql.String},
		"createdAt":  &graphql.Field{Type: Date},
	},
})

var authPayloadType = graphql.NewObject(graphql.ObjectConfig{
	Name: "AuthPayload",
	Fields: graphql.Fields{
		"token": &graphql.Field{Type: graphql.String},
		"user":  &graphql.Field{Type: userType},
	},
})
