// Package models is the catalog of reaction kinetics behind rd.Model.
//
// Every model is a pure function of the local field values. Models with an
// external current expose it through SetStimulus; the value lives on the
// instance and is read on every call, so two instances never share it.
// Tunable constants are reachable by name through GetParams and SetParam.
package models
