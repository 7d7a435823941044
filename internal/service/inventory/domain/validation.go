package domain

// ProductRef 是商品服务返回的原始报文，库存服务不解析其字段。
type ProductRef struct {
	Body []byte
}

func (p ProductRef) String() string { return string(p.Body) }

// ValidationOutcome 是商品存在性校验的结果：Found 或 Failed，二者必居其一。
type ValidationOutcome struct {
	ref     ProductRef
	failure *Error
}

// Found 构造校验成功的结果。
func Found(ref ProductRef) ValidationOutcome {
	return ValidationOutcome{ref: ref}
}

// Failed 构造校验失败的结果。
func Failed(err *Error) ValidationOutcome {
	if err == nil {
		err = &Error{Kind: KindResourceNotFound, Cause: CauseUnexpected, Detail: "Error interno al validar existencia de producto"}
	}
	return ValidationOutcome{failure: err}
}

func (o ValidationOutcome) IsFound() bool { return o.failure == nil }

// Ref 只有在 IsFound 为 true 时有意义。
func (o ValidationOutcome) Ref() ProductRef { return o.ref }

// Err 在 Found 时返回 nil，这里显式处理以避免返回带类型的 nil 接口。
func (o ValidationOutcome) Err() error {
	if o.failure == nil {
		return nil
	}
	return o.failure
}

// Failure 返回具体的领域错误，Found 时为 nil。
func (o ValidationOutcome) Failure() *Error { return o.failure }
