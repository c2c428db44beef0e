// internal/webutil/validator.go
package webutil

import (
	"log"
	"reflect"
	"strings"

	"github.com/go-playground/locales/ja"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	ja_translations "github.com/go-playground/validator/v10/translations/ja"
)

// Validator はアプリケーション全体で共有されるバリデータインスタンスです。
var Validator *validator.Validate

// Trans はエラーメッセージを翻訳するためのトランスレータです。
var Trans ut.Translator

var fieldNameTranslations = map[string]string{
	"identity":         "外部ID",
	"display_name":     "表示名",
	"title":            "タイトル",
	"author":           "著者",
	"category":         "カテゴリ",
	"difficulty":       "難易度",
	"student_id":       "生徒",
	"book_id":          "図書",
	"progress_mode":    "進捗モード",
	"start_date":       "開始日",
	"end_date":         "終了日",
	"date":             "日付",
	"deadline_time":    "締切時刻",
	"daily_target":     "1日の目標",
	"target_value":     "目標値",
	"rating":           "評価",
	"comment":          "コメント",
	"delta":            "加減算値",
	"reason":           "理由",
	"required_bonuses": "必要ボーナス数",
	"reward_text":      "ごほうび",
	"action":           "アクション",
}

func init() {
	Validator = validator.New()

	// JSONタグからフィールド名を取得するように設定
	Validator.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// 日本語のロケールとトランスレータを設定
	japanese := ja.New()
	uni := ut.New(japanese, japanese)
	var found bool
	Trans, found = uni.GetTranslator("ja")
	if !found {
		log.Fatal("translator not found")
	}

	if err := ja_translations.RegisterDefaultTranslations(Validator, Trans); err != nil {
		log.Fatal(err)
	}

	// フィールド名を日本語化してメッセージを生成するヘルパー
	translateField := func(fe validator.FieldError) string {
		if name, ok := fieldNameTranslations[fe.Field()]; ok {
			return name
		}
		return fe.Field()
	}

	registerTranslation := func(tag string, msg string) {
		Validator.RegisterTranslation(tag, Trans, func(ut ut.Translator) error {
			return ut.Add(tag, msg, true)
		}, func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T(tag, translateField(fe))
			return t
		})
	}

	registerTranslation("required", "{0}は必須項目です。")
	registerTranslation("datetime", "{0}の形式が正しくありません。")
	registerTranslation("oneof", "{0}に指定できない値です。")

	// min/max はパラメータ付きメッセージ
	Validator.RegisterTranslation("min", Trans, func(ut ut.Translator) error {
		return ut.Add("min", "{0}は{1}以上で入力してください。", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("min", translateField(fe), fe.Param())
		return t
	})
	Validator.RegisterTranslation("max", Trans, func(ut ut.Translator) error {
		return ut.Add("max", "{0}は{1}以下で入力してください。", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("max", translateField(fe), fe.Param())
		return t
	})
}
