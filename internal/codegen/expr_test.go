package codegen

import (
	"go/token"
	"reflect"
	"testing"

	"github.com/dave/dst"
	"github.com/stretchr/testify/assert"
)

func TestInterner_FromString(t *testing.T) {
	names := NewInterner()

	a := names.FromString("logger")
	b := names.FromString("logger")
	c := names.FromString("warn")

	assert.Equal(t, a, b, "identical text must map to an identical handle")
	assert.NotEqual(t, a, c)
}

func Test_call(t *testing.T) {
	f := NewFactory(NewInterner())

	type args struct {
		receiverPath []Name
		method       Name
		args         []dst.Expr
	}
	tests := []struct {
		name string
		args args
		want *dst.CallExpr
	}{
		{
			name: "bare_identifier_call",
			args: args{
				receiverPath: nil,
				method:       "shutdown",
			},
			want: &dst.CallExpr{
				Fun: dst.NewIdent("shutdown"),
			},
		},
		{
			name: "selection_chain_call",
			args: args{
				receiverPath: []Name{"a", "b", "c"},
				method:       "run",
				args:         []dst.Expr{f.StringLiteral("x")},
			},
			want: &dst.CallExpr{
				Fun: &dst.SelectorExpr{
					X: &dst.SelectorExpr{
						X: &dst.SelectorExpr{
							X:   dst.NewIdent("a"),
							Sel: dst.NewIdent("b"),
						},
						Sel: dst.NewIdent("c"),
					},
					Sel: dst.NewIdent("run"),
				},
				Args: []dst.Expr{
					&dst.BasicLit{Kind: token.STRING, Value: `"x"`},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := f.Call(tt.args.receiverPath, tt.args.method, tt.args.args...)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Call() = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_call_argumentOrder(t *testing.T) {
	f := NewFactory(NewInterner())

	got := f.Call(nil, "record",
		f.StringLiteral("first"),
		f.IntLiteral(2),
		f.StringLiteral("third"),
	)

	assert.Len(t, got.Args, 3)
	assert.Equal(t, `"first"`, got.Args[0].(*dst.BasicLit).Value)
	assert.Equal(t, "2", got.Args[1].(*dst.BasicLit).Value)
	assert.Equal(t, `"third"`, got.Args[2].(*dst.BasicLit).Value)
}

func Test_call_clonesArguments(t *testing.T) {
	f := NewFactory(NewInterner())
	arg := f.StringLiteral("shared")

	first := f.Call(nil, "record", arg)
	second := f.Call(nil, "record", arg)

	assert.NotSame(t, first.Args[0], second.Args[0], "arguments must be defensively cloned")
}

func Test_packageCall(t *testing.T) {
	f := NewFactory(NewInterner())

	want := &dst.CallExpr{
		Fun: &dst.Ident{
			Name: CounterFunction,
			Path: DeprecationImportPath,
		},
		Args: []dst.Expr{
			&dst.BasicLit{Kind: token.STRING, Value: `"example.Widget.Render()"`},
		},
	}

	got := f.PackageCall(DeprecationImportPath, CounterFunction, f.StringLiteral("example.Widget.Render()"))
	assert.Equal(t, want, got)
}

func Test_construction(t *testing.T) {
	f := NewFactory(NewInterner())

	want := &dst.UnaryExpr{
		Op: token.AND,
		X: &dst.CompositeLit{
			Type: &dst.Ident{
				Name: CallErrorType,
				Path: DeprecationImportPath,
			},
			Elts: []dst.Expr{
				&dst.KeyValueExpr{
					Key:   dst.NewIdent(CallErrorField),
					Value: &dst.BasicLit{Kind: token.STRING, Value: `"example.Widget.Render()"`},
				},
			},
		},
	}

	got := f.Construction(DeprecationImportPath, CallErrorType,
		f.Field(CallErrorField, f.StringLiteral("example.Widget.Render()")),
	)
	assert.Equal(t, want, got)
}

func Test_literals(t *testing.T) {
	f := NewFactory(NewInterner())

	assert.Equal(t, &dst.BasicLit{Kind: token.STRING, Value: `"with \"quotes\""`}, f.StringLiteral(`with "quotes"`))
	assert.Equal(t, &dst.BasicLit{Kind: token.INT, Value: "-7"}, f.IntLiteral(-7))
}
