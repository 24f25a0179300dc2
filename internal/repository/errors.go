package repository

import "errors"

// ErrNotFound возвращается, когда задача с таким id отсутствует в хранилище
var ErrNotFound = errors.New("задача не найдена")
