// Package rbac es el motor de decisión de autorización.
//
// Piezas, de la hoja a la raíz:
//
//   - PermissionString: "resource.action", la unidad que se compara
//     byte a byte contra los requisitos de cada ruta
//   - Resolver: unión de permisos sobre los roles asignados al usuario
//   - PermissionCache: memoiza el Set resuelto por usuario con TTL e
//     invalidación explícita (por usuario o total)
//   - Gate: decide Allow/Deny para una identidad y un requisito ANY/ALL
//
// El cache es solo una optimización: cualquier falla del backend se trata
// como miss y la decisión se toma contra el store.
package rbac
