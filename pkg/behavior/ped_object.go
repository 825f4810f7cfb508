package behavior

import (
	"github.com/d5/tengo/v2"
	"github.com/decker502/pedanim/pkg/pedestrian"
	"github.com/decker502/pedanim/pkg/types"
)

// pedObject 构建脚本中的 ped 对象
//
//	ped.anim()                  → [group, index]
//	ped.set_anim(group, index)  → bool（名称无法识别时为 false）
//	ped.walking() / ped.set_walking(bool)
//	ped.running() / ped.set_running(bool)
//	ped.in_vehicle() / ped.set_in_vehicle(bool)
//	ped.id() / ped.set_id(int)
//	ped.speed()
func pedObject(ped *pedestrian.Pedestrian) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["anim"] = &tengo.UserFunction{Name: "anim", Value: func(args ...tengo.Object) (tengo.Object, error) {
		req := ped.Anim()
		return &tengo.Array{Value: []tengo.Object{
			&tengo.String{Value: req.Group.String()},
			&tengo.String{Value: req.Index.String()},
		}}, nil
	}}

	values["set_anim"] = &tengo.UserFunction{Name: "set_anim", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 2 {
			return nil, tengo.ErrWrongNumArguments
		}
		groupName, _ := tengo.ToString(args[0])
		indexName, _ := tengo.ToString(args[1])
		group, err := types.ParseAnimGroup(groupName)
		if err != nil {
			return tengo.FalseValue, nil
		}
		index, err := types.ParseAnimIndex(indexName)
		if err != nil {
			return tengo.FalseValue, nil
		}
		ped.SetAnim(group, index)
		return tengo.TrueValue, nil
	}}

	values["walking"] = boolGetter("walking", ped.Walking)
	values["set_walking"] = boolSetter("set_walking", ped.SetWalking)
	values["running"] = boolGetter("running", ped.Running)
	values["set_running"] = boolSetter("set_running", ped.SetRunning)
	values["in_vehicle"] = boolGetter("in_vehicle", func() bool { return ped.InVehicle })
	values["set_in_vehicle"] = boolSetter("set_in_vehicle", func(v bool) { ped.InVehicle = v })

	values["id"] = &tengo.UserFunction{Name: "id", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Int{Value: int64(ped.PedestrianID())}, nil
	}}

	values["set_id"] = &tengo.UserFunction{Name: "set_id", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		id, ok := tengo.ToInt(args[0])
		if !ok {
			return tengo.FalseValue, nil
		}
		ped.SetPedestrianID(id)
		return tengo.TrueValue, nil
	}}

	values["speed"] = &tengo.UserFunction{Name: "speed", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Float{Value: ped.Speed()}, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func boolGetter(name string, get func() bool) *tengo.UserFunction {
	return &tengo.UserFunction{Name: name, Value: func(args ...tengo.Object) (tengo.Object, error) {
		if get() {
			return tengo.TrueValue, nil
		}
		return tengo.FalseValue, nil
	}}
}

func boolSetter(name string, set func(bool)) *tengo.UserFunction {
	return &tengo.UserFunction{Name: name, Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		set(!args[0].IsFalsy())
		return tengo.UndefinedValue, nil
	}}
}
