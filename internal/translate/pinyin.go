package translate

import (
	"strings"

	"github.com/mozillazg/go-pinyin"
)

// Romanize 返回中文文本的带声调拼音，帮助泰语使用者朗读译文。
// 非汉字字符原样保留。
func Romanize(text string) string {
	args := pinyin.NewArgs()
	args.Style = pinyin.Tone
	args.Fallback = func(r rune, _ pinyin.Args) []string {
		return []string{string(r)}
	}

	words := pinyin.Pinyin(text, args)
	parts := make([]string, 0, len(words))
	for _, w := range words {
		if len(w) > 0 {
			parts = append(parts, w[0])
		}
	}
	return strings.Join(parts, " ")
}
