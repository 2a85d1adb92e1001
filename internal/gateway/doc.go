// Package gateway はAPI Gatewayサービスの内部実装を提供する。
//
// 外部からアクセス可能な唯一のサービスであり、公開パスを内部サービスの
// パスに書き換えてリクエストを転送する。トークンの検証は行わず、
// 各リソースサービスが自身で認証を判断する。レスポンスはステータス・
// ヘッダー・ボディをそのままクライアントに中継する。
package gateway
