// Package jsonapi 提供两个服务共用的 JSON:API 响应包装与错误文档。
package jsonapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"
)

// Data 是 JSON:API 的资源对象。
type Data[T any] struct {
	Type       string `json:"type"`
	ID         string `json:"id,omitempty"`
	Attributes T      `json:"attributes"`
}

// Document 是成功响应的顶层结构。
type Document[T any] struct {
	Data Data[T] `json:"data"`
}

// Wrap 把属性包装成 {"data": {...}}。
func Wrap[T any](resourceType, id string, attributes T) Document[T] {
	return Document[T]{Data: Data[T]{Type: resourceType, ID: id, Attributes: attributes}}
}

// Source 指向出错的请求字段。
type Source struct {
	Pointer string `json:"pointer"`
}

// ErrorObject 是 errors 数组中的一项。
type ErrorObject struct {
	Status    string  `json:"status"`
	Title     string  `json:"title,omitempty"`
	Detail    string  `json:"detail"`
	Source    *Source `json:"source,omitempty"`
	Timestamp string  `json:"timestamp,omitempty"`
}

// ErrorDocument 是失败响应的顶层结构。
type ErrorDocument struct {
	Errors []ErrorObject `json:"errors"`
}

// NewError 构造带时间戳的单条错误。
func NewError(status int, title, detail string) ErrorObject {
	return ErrorObject{
		Status:    strconv.Itoa(status),
		Title:     title,
		Detail:    detail,
		Timestamp: time.Now().Format(time.RFC3339Nano),
	}
}

// WriteJSON 输出任意 JSON 响应。
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError 输出只包含一条错误的错误文档。
func WriteError(w http.ResponseWriter, status int, title, detail string) {
	WriteErrors(w, status, NewError(status, title, detail))
}

// WriteErrors 输出错误文档。
func WriteErrors(w http.ResponseWriter, status int, errs ...ErrorObject) {
	WriteJSON(w, status, ErrorDocument{Errors: errs})
}
