package test

// Result 对应 ginx.Result，Data 的类型由用例决定
type Result[T any] struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data T      `json:"data"`
}
