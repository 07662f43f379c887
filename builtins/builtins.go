// Package builtins holds the language's built-in constant, function and
// event tables. The tables are initialized once and immutable afterwards;
// passes take per-arena views (symbols in a script's global scope) and
// never write back.
package builtins

import (
	"math"
	"sync"

	"github.com/secondlife/tailslide/ast"
)

// Constant is a built-in named value.
type Constant struct {
	Name string
	Type ast.Type

	IntValue    int32
	FloatValue  float32
	StringValue string
	VectorValue [3]float32
	QuatValue   [4]float32
}

// Function is a built-in library function signature.
type Function struct {
	Name    string
	Returns ast.Type
	Params  []ast.Param
}

// Event is a host-invoked handler signature.
type Event struct {
	Name   string
	Params []ast.Param
}

var (
	once      sync.Once
	constants map[string]*Constant
	functions map[string]*Function
	events    map[string]*Event
)

// LookupConstant returns the built-in constant with the given name.
func LookupConstant(name string) *Constant {
	once.Do(initTables)
	return constants[name]
}

// LookupFunction returns the built-in function with the given name.
func LookupFunction(name string) *Function {
	once.Do(initTables)
	return functions[name]
}

// LookupEvent returns the event signature with the given name.
func LookupEvent(name string) *Event {
	once.Do(initTables)
	return events[name]
}

// EachConstant calls fn for every built-in constant. Iteration order is
// unspecified.
func EachConstant(fn func(*Constant)) {
	once.Do(initTables)
	for _, c := range constants {
		fn(c)
	}
}

// EachFunction calls fn for every built-in function.
func EachFunction(fn func(*Function)) {
	once.Do(initTables)
	for _, f := range functions {
		fn(f)
	}
}

// MakeValue materializes the constant's value as a constant node in the
// given arena.
func (c *Constant) MakeValue(alloc *ast.Allocator) *ast.Node {
	switch c.Type {
	case ast.TypeInteger:
		return alloc.NewIntegerConstant(c.IntValue)
	case ast.TypeFloat:
		return alloc.NewFloatConstant(c.FloatValue)
	case ast.TypeString:
		return alloc.NewStringConstant(c.StringValue)
	case ast.TypeKey:
		return alloc.NewKeyConstant(c.StringValue)
	case ast.TypeVector:
		return alloc.NewVectorConstant(c.VectorValue[0], c.VectorValue[1], c.VectorValue[2])
	case ast.TypeRotation:
		return alloc.NewQuaternionConstant(c.QuatValue[0], c.QuatValue[1], c.QuatValue[2], c.QuatValue[3])
	}
	panic("builtins: constant with unexpected type")
}

func intConst(name string, v int32) *Constant {
	return &Constant{Name: name, Type: ast.TypeInteger, IntValue: v}
}

func floatConst(name string, v float32) *Constant {
	return &Constant{Name: name, Type: ast.TypeFloat, FloatValue: v}
}

func params(pairs ...any) []ast.Param {
	out := make([]ast.Param, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, ast.Param{Type: pairs[i].(ast.Type), Name: pairs[i+1].(string)})
	}
	return out
}

func initTables() {
	constList := []*Constant{
		intConst("TRUE", 1),
		intConst("FALSE", 0),
		intConst("STATUS_PHYSICS", 1),
		intConst("STATUS_PHANTOM", 16),
		intConst("AGENT", 1),
		intConst("ACTIVE", 2),
		intConst("PASSIVE", 4),
		intConst("SCRIPTED", 8),
		intConst("PERMISSION_TAKE_CONTROLS", 4),
		intConst("PERMISSION_TRIGGER_ANIMATION", 16),
		intConst("CHANGED_INVENTORY", 1),
		intConst("CHANGED_OWNER", 128),
		intConst("LINK_SET", -1),
		intConst("LINK_ROOT", 1),
		intConst("LINK_THIS", -4),
		intConst("PUBLIC_CHANNEL", 0),
		intConst("DEBUG_CHANNEL", 2147483647),
		intConst("TYPE_INTEGER", 1),
		intConst("TYPE_FLOAT", 2),
		intConst("TYPE_STRING", 3),
		intConst("TYPE_KEY", 4),
		intConst("TYPE_VECTOR", 5),
		intConst("TYPE_ROTATION", 6),
		intConst("TYPE_INVALID", 0),
		floatConst("PI", float32(math.Pi)),
		floatConst("TWO_PI", float32(2*math.Pi)),
		floatConst("PI_BY_TWO", float32(math.Pi/2)),
		floatConst("DEG_TO_RAD", float32(math.Pi/180)),
		floatConst("RAD_TO_DEG", float32(180/math.Pi)),
		floatConst("SQRT2", float32(math.Sqrt2)),
		{Name: "NULL_KEY", Type: ast.TypeKey, StringValue: "00000000-0000-0000-0000-000000000000"},
		{Name: "EOF", Type: ast.TypeString, StringValue: "\n\n\n"},
		{Name: "ZERO_VECTOR", Type: ast.TypeVector},
		{Name: "ZERO_ROTATION", Type: ast.TypeRotation, QuatValue: [4]float32{0, 0, 0, 1}},
	}

	funcList := []*Function{
		{Name: "llSay", Returns: ast.TypeVoid, Params: params(ast.TypeInteger, "channel", ast.TypeString, "msg")},
		{Name: "llShout", Returns: ast.TypeVoid, Params: params(ast.TypeInteger, "channel", ast.TypeString, "msg")},
		{Name: "llWhisper", Returns: ast.TypeVoid, Params: params(ast.TypeInteger, "channel", ast.TypeString, "msg")},
		{Name: "llOwnerSay", Returns: ast.TypeVoid, Params: params(ast.TypeString, "msg")},
		{Name: "llListen", Returns: ast.TypeInteger, Params: params(ast.TypeInteger, "channel", ast.TypeString, "name", ast.TypeKey, "id", ast.TypeString, "msg")},
		{Name: "llListenRemove", Returns: ast.TypeVoid, Params: params(ast.TypeInteger, "handle")},
		{Name: "llSetTimerEvent", Returns: ast.TypeVoid, Params: params(ast.TypeFloat, "sec")},
		{Name: "llSleep", Returns: ast.TypeVoid, Params: params(ast.TypeFloat, "sec")},
		{Name: "llGetPos", Returns: ast.TypeVector},
		{Name: "llSetPos", Returns: ast.TypeVoid, Params: params(ast.TypeVector, "pos")},
		{Name: "llGetRot", Returns: ast.TypeRotation},
		{Name: "llSetRot", Returns: ast.TypeVoid, Params: params(ast.TypeRotation, "rot")},
		{Name: "llGetOwner", Returns: ast.TypeKey},
		{Name: "llGetKey", Returns: ast.TypeKey},
		{Name: "llSetText", Returns: ast.TypeVoid, Params: params(ast.TypeString, "text", ast.TypeVector, "color", ast.TypeFloat, "alpha")},
		{Name: "llSetColor", Returns: ast.TypeVoid, Params: params(ast.TypeVector, "color", ast.TypeInteger, "face")},
		{Name: "llMessageLinked", Returns: ast.TypeVoid, Params: params(ast.TypeInteger, "link", ast.TypeInteger, "num", ast.TypeString, "str", ast.TypeKey, "id")},
		{Name: "llAbs", Returns: ast.TypeInteger, Params: params(ast.TypeInteger, "val")},
		{Name: "llFabs", Returns: ast.TypeFloat, Params: params(ast.TypeFloat, "val")},
		{Name: "llFloor", Returns: ast.TypeInteger, Params: params(ast.TypeFloat, "val")},
		{Name: "llCeil", Returns: ast.TypeInteger, Params: params(ast.TypeFloat, "val")},
		{Name: "llRound", Returns: ast.TypeInteger, Params: params(ast.TypeFloat, "val")},
		{Name: "llSqrt", Returns: ast.TypeFloat, Params: params(ast.TypeFloat, "val")},
		{Name: "llPow", Returns: ast.TypeFloat, Params: params(ast.TypeFloat, "base", ast.TypeFloat, "exponent")},
		{Name: "llFrand", Returns: ast.TypeFloat, Params: params(ast.TypeFloat, "mag")},
		{Name: "llVecMag", Returns: ast.TypeFloat, Params: params(ast.TypeVector, "v")},
		{Name: "llVecNorm", Returns: ast.TypeVector, Params: params(ast.TypeVector, "v")},
		{Name: "llVecDist", Returns: ast.TypeFloat, Params: params(ast.TypeVector, "a", ast.TypeVector, "b")},
		{Name: "llStringLength", Returns: ast.TypeInteger, Params: params(ast.TypeString, "str")},
		{Name: "llGetSubString", Returns: ast.TypeString, Params: params(ast.TypeString, "str", ast.TypeInteger, "start", ast.TypeInteger, "end")},
		{Name: "llSubStringIndex", Returns: ast.TypeInteger, Params: params(ast.TypeString, "source", ast.TypeString, "pattern")},
		{Name: "llToUpper", Returns: ast.TypeString, Params: params(ast.TypeString, "src")},
		{Name: "llToLower", Returns: ast.TypeString, Params: params(ast.TypeString, "src")},
		{Name: "llGetListLength", Returns: ast.TypeInteger, Params: params(ast.TypeList, "src")},
		{Name: "llList2String", Returns: ast.TypeString, Params: params(ast.TypeList, "src", ast.TypeInteger, "index")},
		{Name: "llList2Integer", Returns: ast.TypeInteger, Params: params(ast.TypeList, "src", ast.TypeInteger, "index")},
		{Name: "llList2Float", Returns: ast.TypeFloat, Params: params(ast.TypeList, "src", ast.TypeInteger, "index")},
		{Name: "llList2Key", Returns: ast.TypeKey, Params: params(ast.TypeList, "src", ast.TypeInteger, "index")},
		{Name: "llListSort", Returns: ast.TypeList, Params: params(ast.TypeList, "src", ast.TypeInteger, "stride", ast.TypeInteger, "ascending")},
		{Name: "llParseString2List", Returns: ast.TypeList, Params: params(ast.TypeString, "src", ast.TypeList, "separators", ast.TypeList, "spacers")},
		{Name: "llDumpList2String", Returns: ast.TypeString, Params: params(ast.TypeList, "src", ast.TypeString, "separator")},
		{Name: "llCSV2List", Returns: ast.TypeList, Params: params(ast.TypeString, "src")},
		{Name: "llList2CSV", Returns: ast.TypeString, Params: params(ast.TypeList, "src")},
		{Name: "llGetTime", Returns: ast.TypeFloat},
		{Name: "llResetTime", Returns: ast.TypeVoid},
		{Name: "llGetUnixTime", Returns: ast.TypeInteger},
		{Name: "llResetScript", Returns: ast.TypeVoid},
		{Name: "llRequestPermissions", Returns: ast.TypeVoid, Params: params(ast.TypeKey, "agent", ast.TypeInteger, "perm")},
		{Name: "llHTTPRequest", Returns: ast.TypeKey, Params: params(ast.TypeString, "url", ast.TypeList, "parameters", ast.TypeString, "body")},
		{Name: "llTriggerSound", Returns: ast.TypeVoid, Params: params(ast.TypeString, "sound", ast.TypeFloat, "volume")},
		{Name: "llApplyImpulse", Returns: ast.TypeVoid, Params: params(ast.TypeVector, "force", ast.TypeInteger, "local")},
		{Name: "llEuler2Rot", Returns: ast.TypeRotation, Params: params(ast.TypeVector, "v")},
		{Name: "llRot2Euler", Returns: ast.TypeVector, Params: params(ast.TypeRotation, "q")},
		{Name: "llKey2Name", Returns: ast.TypeString, Params: params(ast.TypeKey, "id")},
	}

	eventList := []*Event{
		{Name: "state_entry"},
		{Name: "state_exit"},
		{Name: "touch_start", Params: params(ast.TypeInteger, "total_number")},
		{Name: "touch", Params: params(ast.TypeInteger, "total_number")},
		{Name: "touch_end", Params: params(ast.TypeInteger, "total_number")},
		{Name: "collision_start", Params: params(ast.TypeInteger, "total_number")},
		{Name: "collision", Params: params(ast.TypeInteger, "total_number")},
		{Name: "collision_end", Params: params(ast.TypeInteger, "total_number")},
		{Name: "timer"},
		{Name: "listen", Params: params(ast.TypeInteger, "channel", ast.TypeString, "name", ast.TypeKey, "id", ast.TypeString, "message")},
		{Name: "sensor", Params: params(ast.TypeInteger, "total_number")},
		{Name: "no_sensor"},
		{Name: "on_rez", Params: params(ast.TypeInteger, "start_param")},
		{Name: "changed", Params: params(ast.TypeInteger, "change")},
		{Name: "attach", Params: params(ast.TypeKey, "id")},
		{Name: "dataserver", Params: params(ast.TypeKey, "query_id", ast.TypeString, "data")},
		{Name: "link_message", Params: params(ast.TypeInteger, "sender_num", ast.TypeInteger, "num", ast.TypeString, "str", ast.TypeKey, "id")},
		{Name: "money", Params: params(ast.TypeKey, "id", ast.TypeInteger, "amount")},
		{Name: "run_time_permissions", Params: params(ast.TypeInteger, "perm")},
		{Name: "control", Params: params(ast.TypeKey, "id", ast.TypeInteger, "level", ast.TypeInteger, "edge")},
		{Name: "http_response", Params: params(ast.TypeKey, "request_id", ast.TypeInteger, "status", ast.TypeList, "metadata", ast.TypeString, "body")},
		{Name: "at_target", Params: params(ast.TypeInteger, "tnum", ast.TypeVector, "targetpos", ast.TypeVector, "ourpos")},
		{Name: "not_at_target"},
		{Name: "moving_start"},
		{Name: "moving_end"},
	}

	constants = make(map[string]*Constant, len(constList))
	for _, c := range constList {
		constants[c.Name] = c
	}
	functions = make(map[string]*Function, len(funcList))
	for _, f := range funcList {
		functions[f.Name] = f
	}
	events = make(map[string]*Event, len(eventList))
	for _, e := range eventList {
		events[e.Name] = e
	}
}
