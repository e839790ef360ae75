package codec_test

import (
	"errors"
	"fmt"

	"github.com/joeycumines/go-pbdynamic/codec"
	"github.com/joeycumines/go-pbdynamic/dynval"
	"github.com/joeycumines/go-pbdynamic/internal/testschema"
	"github.com/joeycumines/go-pbdynamic/schema"
)

func ExampleCodec() {
	pool, err := schema.NewPool()
	if err != nil {
		panic(err)
	}
	if _, err := pool.LoadDescriptorSet(testschema.DescriptorSetBytes()); err != nil {
		panic(err)
	}

	c, err := codec.New(pool, codec.WithPreserveInt64(true))
	if err != nil {
		panic(err)
	}

	data, err := c.Encode("test.OneofMessage", dynval.MapValue(dynval.NewMap().
		Set("msg_choice", dynval.MapValue(dynval.NewMap().
			Set("value", dynval.Number(42))))))
	if err != nil {
		panic(err)
	}
	fmt.Printf("% x\n", data)

	v, err := c.Decode("test.OneofMessage", data)
	if err != nil {
		panic(err)
	}
	fmt.Println(v)

	//output:
	//1a 02 08 2a
	//{"msg_choice":{"value":42}}
}

func ExampleError() {
	pool, err := schema.NewPool()
	if err != nil {
		panic(err)
	}
	if _, err := pool.LoadDescriptorSet(testschema.DescriptorSetBytes()); err != nil {
		panic(err)
	}

	c, err := codec.New(pool)
	if err != nil {
		panic(err)
	}

	_, err = c.Encode("test.AllTypes", dynval.MapValue(dynval.NewMap().
		Set("enum_val", dynval.String("FOURTH"))))
	fmt.Println(err)

	var e *codec.Error
	if errors.As(err, &e) {
		fmt.Println(e.Kind, e.Field)
	}

	//output:
	//codec: unknown enum name: test.AllTypes.enum_val: "FOURTH" is not a value of test.TestEnum
	//UnknownEnumName enum_val
}
