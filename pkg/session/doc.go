// Package session はセッションレコードの登録・生存確認・失効を提供する。
//
// レコードはトークン文字列そのものをキーとしてRedisに保持され、
// ストア側TTLで自動失効する。トークンに埋め込まれた署名付き有効期限とは
// 独立した失効機構であり、両方が揃って初めてトークンは「有効」となる。
// レコードを書き込むのは認証サービスのみで、他サービスは読み取り専用。
package session
