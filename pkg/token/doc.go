// Package token はセッショントークンの発行と検証を提供する。
//
// トークンは共有シークレットでHMAC署名された自己完結型のアーティファクトで、
// シークレットを持つ全サービスがネットワークアクセスなしで署名と有効期限を
// 検証できる。セッションストア側の失効確認は本パッケージの責務外。
package token
