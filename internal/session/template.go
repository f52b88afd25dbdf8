package session

import "strings"

// 命令模板中的占位符
const (
	NamePlaceholder  = "_VARNAME_"
	ValuePlaceholder = "_VALUE_"
)

const (
	DefaultReadCommand  = "GET " + NamePlaceholder
	DefaultWriteCommand = "SET " + NamePlaceholder + " TO " + ValuePlaceholder
)

// RenderRead 把模板中所有的变量名占位符替换为 name
func RenderRead(template, name string) string {
	return strings.ReplaceAll(template, NamePlaceholder, name)
}

// RenderWrite 一次性替换变量名和值占位符，替换进去的文本不会再被展开
func RenderWrite(template, name, value string) string {
	return strings.NewReplacer(NamePlaceholder, name, ValuePlaceholder, value).Replace(template)
}
