// Package status はログイン状態確認サービスの内部実装を提供する。
//
// 提示されたトークンが現在有効かどうかだけを返す読み取り専用サービスで、
// トークンが無い・無効・失効済みのいずれの場合もエラーにはせず、
// 常に200でログイン状態を返す。
package status
