// Package data はデータサービスの内部実装を提供する。
//
// 認証済みの呼び出し元にのみモックの業務データを返すリソースサービスの
// 実装例。トークンの署名検証とセッションストアの生存確認を両方通過した
// リクエストだけを処理する。
package data
