package ioschema

import "errors"

var errNotConnected = errors.New("not connected to database")
