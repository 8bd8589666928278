// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2026-present Datadog, Inc.

package fxutil

import (
	"reflect"

	"go.uber.org/fx"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// delayedFxInvocation captures the arguments fx resolves for fn when the app
// is built, and calls fn with them later.
type delayedFxInvocation struct {
	fn   interface{}
	args []reflect.Value
}

func newDelayedFxInvocation(fn interface{}) *delayedFxInvocation {
	ftype := reflect.TypeOf(fn)
	if ftype == nil || ftype.Kind() != reflect.Func {
		panic("delayedFxInvocation requires a function as its first argument")
	}
	if ftype.NumOut() > 1 || (ftype.NumOut() == 1 && ftype.Out(0) != errorType) {
		panic("delayedFxInvocation requires a function returning nothing or an error")
	}
	return &delayedFxInvocation{fn: fn}
}

// option returns an fx.Invoke capturing the arguments of fn.
func (i *delayedFxInvocation) option() fx.Option {
	ftype := reflect.TypeOf(i.fn)
	in := make([]reflect.Type, ftype.NumIn())
	for j := range in {
		in[j] = ftype.In(j)
	}
	capture := reflect.MakeFunc(reflect.FuncOf(in, nil, false), func(args []reflect.Value) []reflect.Value {
		i.args = args
		return nil
	})
	return fx.Invoke(capture.Interface())
}

// call calls fn with the captured arguments.
func (i *delayedFxInvocation) call() error {
	res := reflect.ValueOf(i.fn).Call(i.args)
	if len(res) == 1 && !res[0].IsNil() {
		return res[0].Interface().(error)
	}
	return nil
}
