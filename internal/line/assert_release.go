//go:build !qtextdebug

package line

const strictIndexes = false
