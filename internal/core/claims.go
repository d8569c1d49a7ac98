package core

import "github.com/golang-jwt/jwt/v4"

// Claims 身分提供者簽發的 token 內容；Subject 即 actor id
type Claims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// ContextActorKey gin.Context 中存放已驗證 actor 的 key
const ContextActorKey = "actor"

// Actor 已登入的操作者
type Actor struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}
