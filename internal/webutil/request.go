// internal/webutil/request.go
package webutil

import (
	"encoding/json"
	"errors"
	"net/http"

	"go_5_read_keep/internal/model"

	"github.com/go-playground/validator/v10"
)

// DecodeJSONBody はリクエストボディをデコードします
func DecodeJSONBody(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return model.ErrInvalidInput
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return model.ErrInvalidInput
	}
	return nil
}

// ValidateStruct は共有バリデータで構造体を検証し、失敗時は
// 最初のエラーを日本語メッセージに翻訳した AppError を返します。
func ValidateStruct(req interface{}) *model.AppError {
	if err := Validator.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			firstErr := validationErrors[0]
			return model.NewAppError(
				"VALIDATION_ERROR",
				firstErr.Translate(Trans),
				firstErr.Field(), // エラーが発生したフィールド (jsonタグ名)
				model.ErrInvalidInput,
			)
		}
		// バリデーションライブラリ自体のエラーなど、予期せぬエラー
		return model.NewAppError("VALIDATION_ERROR", "入力値の検証に失敗しました。", "", model.ErrInvalidInput)
	}
	return nil
}
