// Package middleware はGinベースのHTTP APIで使用する共通ミドルウェアを提供する。
//
// セッショントークンの二段階検証（署名検証とセッションストアの生存確認）、
// パニックリカバリ、CORS設定など、各サービスで共通して使用する
// ミドルウェアを含む。
package middleware
