package handler

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/id"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	id_translations "github.com/go-playground/validator/v10/translations/id"
)

// Trans 全局翻译器（导出供 response.go 使用）
var Trans ut.Translator

// InitTrans 初始化校验错误翻译器
// locale 传 "id"（产品面向印尼语用户）或 "en"
// validator 默认的错误提示是英文，需要翻译成用户语言
func InitTrans(locale string) (err error) {
	// Gin v1.9+ 中 binding.Validator 可能为 nil，需要先初始化
	if binding.Validator == nil {
		binding.Validator = &defaultValidator{validator: validator.New()}
	}

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		// 报错信息使用 json tag 字段名而不是 Go 结构体字段名
		// 前端传参用的是 json 字段名，错误提示要能对得上
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		idT := id.New() // 印尼语翻译器
		enT := en.New() // 英文翻译器（fallback）

		uni := ut.New(enT, idT, enT)

		var ok bool
		Trans, ok = uni.GetTranslator(locale)
		if !ok {
			return fmt.Errorf("uni.GetTranslator(%s) failed", locale)
		}

		switch locale {
		case "id":
			err = id_translations.RegisterDefaultTranslations(v, Trans)
		default:
			err = en_translations.RegisterDefaultTranslations(v, Trans)
		}
	}
	return
}

// RemoveTopStruct 去除提示信息中的结构体名称前缀
// validator 返回的 key 形如 "LoginRequest.displayName"，前端只需要字段名
func RemoveTopStruct(fields map[string]string) map[string]string {
	res := make(map[string]string)
	for field, err := range fields {
		res[field[strings.Index(field, ".")+1:]] = err
	}
	return res
}

// defaultValidator 实现 binding.StructValidator 接口
// 用于在 binding.Validator 为 nil 时兜底初始化
type defaultValidator struct {
	validator *validator.Validate
}

// ValidateStruct 实现 StructValidator 接口
func (v *defaultValidator) ValidateStruct(obj interface{}) error {
	return v.validator.Struct(obj)
}

// Engine 实现 StructValidator 接口
func (v *defaultValidator) Engine() interface{} {
	return v.validator
}
