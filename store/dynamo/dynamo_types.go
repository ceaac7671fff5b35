package dynamo

import (
	"github.com/zlnvch/markwiki/models"
)

const userSK = "PROFILE"

func userPK(name string) string {
	return "USER#" + name
}

type dynamoUser struct {
	PK                   string   `dynamodbav:"PK"`
	SK                   string   `dynamodbav:"SK"`
	Id                   string   `dynamodbav:"Id"`
	Active               bool     `dynamodbav:"Active"`
	Roles                []string `dynamodbav:"Roles"`
	AuthenticationMethod string   `dynamodbav:"AuthenticationMethod"`
	Authenticated        bool     `dynamodbav:"Authenticated"`
	Email                string   `dynamodbav:"Email"`
	IsAnonymous          bool     `dynamodbav:"IsAnonymous"`
	Hash                 string   `dynamodbav:"Hash"`
	Password             string   `dynamodbav:"Password"`
}

// Map domain User -> Dynamo
func userToDynamo(name string, u models.User) dynamoUser {
	return dynamoUser{
		PK:                   userPK(name),
		SK:                   userSK,
		Id:                   u.Id,
		Active:               u.Active,
		Roles:                u.Roles,
		AuthenticationMethod: string(u.AuthenticationMethod),
		Authenticated:        u.Authenticated,
		Email:                u.Email,
		IsAnonymous:          u.IsAnonymous,
		Hash:                 u.Hash,
		Password:             u.Password,
	}
}

// Map Dynamo -> domain User
func userFromDynamo(du dynamoUser) models.User {
	return models.User{
		Id:                   du.Id,
		Active:               du.Active,
		Roles:                du.Roles,
		AuthenticationMethod: models.AuthMethod(du.AuthenticationMethod),
		Authenticated:        du.Authenticated,
		Email:                du.Email,
		IsAnonymous:          du.IsAnonymous,
		Hash:                 du.Hash,
		Password:             du.Password,
	}
}
