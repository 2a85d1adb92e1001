// Package auth は認証サービスの内部実装を提供する。
//
// ユーザーディレクトリの管理（登録）、資格情報の検証（ログイン）、
// セッショントークンの発行とセッションストアへの登録を担当する。
// セッションレコードを書き込む唯一のサービスであり、リソースサービスとは
// トークン形式とセッションストアの内容のみを介して合意する。
package auth
